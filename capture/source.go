package capture

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

// Source produces frames until ctx is done or the source is exhausted.
type Source interface {
	Run(ctx context.Context, sink func(model.Frame)) error
}

// Feed runs src with s as its analyzer callback.
func Feed(ctx context.Context, src Source, s Strategy) error {
	return src.Run(ctx, s.Analyze)
}

// ReadBackoff paces a source after failed reads. Each consecutive failure
// doubles the pause up to Max, and Limit consecutive failures end the run.
// A successful read resets the streak.
type ReadBackoff struct {
	Initial time.Duration
	Max     time.Duration
	Limit   int

	failures int
}

func NewReadBackoff() *ReadBackoff {
	return &ReadBackoff{
		Initial: 10 * time.Millisecond,
		Max:     time.Second,
		Limit:   50,
	}
}

// Failed records a failed read and waits out the pause. It returns
// CodeCaptureFramesUnavailable once the streak reaches Limit, and nil
// without waiting when ctx ends first.
func (b *ReadBackoff) Failed(ctx context.Context) error {
	b.failures++
	if b.Limit > 0 && b.failures >= b.Limit {
		return model.NewError(model.CodeCaptureFramesUnavailable, "capture.readBackoff",
			"%d consecutive reads failed", b.failures)
	}

	select {
	case <-ctx.Done():
	case <-time.After(b.delay()):
	}
	return nil
}

func (b *ReadBackoff) Succeeded() {
	b.failures = 0
}

func (b *ReadBackoff) delay() time.Duration {
	d := b.Initial
	for i := 1; i < b.failures && d < b.Max; i++ {
		d *= 2
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return d
}

// SyntheticSource generates solid frames whose colour encodes the frame
// number. A zero Limit runs until ctx is done.
type SyntheticSource struct {
	Resolution model.Resolution
	Rotation   int
	Interval   time.Duration
	Limit      int
}

func (src SyntheticSource) Run(ctx context.Context, sink func(model.Frame)) error {
	res := src.Resolution
	if !res.Valid() {
		res = model.CaptureResolution
	}

	frames := 0
	defer func() {
		lgr.Logger.Debug("synthetic source stopped", slog.Int("frames", frames))
	}()

	for src.Limit <= 0 || frames < src.Limit {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		sink(model.Frame{
			ID:        uuid.NewString(),
			Image:     syntheticImage(res, frames),
			Rotation:  src.Rotation,
			Timestamp: time.Now(),
		})
		frames++

		if src.Interval > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(src.Interval):
			}
		}
	}
	return nil
}

func syntheticImage(res model.Resolution, n int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, res.Width, res.Height))
	c := color.NRGBA{R: uint8(n), G: uint8(n >> 8), B: 128, A: 255}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}
