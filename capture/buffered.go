package capture

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

// Buffered accepts frames only while a capture is being taken, keeps at most
// BufferSize of them (dropping the oldest) and drains them in arrival order,
// one distinct frame per capture.
type Buffered struct {
	frameMu sync.Mutex
	frames  []model.Frame
	taking  bool
	stats   model.CaptureStats

	captureMu sync.Mutex
	settings  Settings
	size      int
	retries   int
	backoff   time.Duration
}

func NewBuffered(opts Options) *Buffered {
	opts = opts.withDefaults()
	return &Buffered{
		frames:   make([]model.Frame, 0, opts.BufferSize),
		settings: opts.Settings,
		size:     opts.BufferSize,
		retries:  opts.Retries,
		backoff:  opts.Backoff,
		stats:    model.CaptureStats{Name: StrategyBuffered},
	}
}

func (b *Buffered) Name() string { return StrategyBuffered }

func (b *Buffered) SetConfig(cfg map[string]string) error {
	b.captureMu.Lock()
	defer b.captureMu.Unlock()

	next, err := b.settings.apply(cfg)
	if err != nil {
		return err
	}
	b.settings = next
	return nil
}

func (b *Buffered) Settings() Settings {
	b.captureMu.Lock()
	defer b.captureMu.Unlock()
	return b.settings
}

func (b *Buffered) Analyze(frame model.Frame) {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()

	b.stats.Frames++
	if !b.taking {
		return
	}
	if len(b.frames) >= b.size {
		b.frames = b.frames[1:]
		b.stats.Dropped++
		lgr.Logger.Debug("frame buffer full, dropped oldest frame", slog.Int("size", b.size))
	}
	b.frames = append(b.frames, frame)
}

func (b *Buffered) setTaking(taking bool) {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()

	b.taking = taking
	b.frames = b.frames[:0]
}

func (b *Buffered) pop() (model.Frame, bool) {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()

	if len(b.frames) == 0 {
		return model.Frame{}, false
	}
	frame := b.frames[0]
	b.frames = b.frames[1:]
	return frame, true
}

// TakeCapture holds the issuance lock for the whole burst; ctx is only
// consulted before the burst starts.
func (b *Buffered) TakeCapture(ctx context.Context) ([]model.Capture, error) {
	const op = "capture.buffered.takeCapture"

	if err := ctx.Err(); err != nil {
		return nil, model.WrapError(model.CodeCanceled, op, "capture canceled", err)
	}

	b.captureMu.Lock()
	defer b.captureMu.Unlock()

	b.setTaking(true)
	defer b.setTaking(false)

	captures := make([]model.Capture, 0, b.settings.CaptureCount)
	for slot := 0; slot < b.settings.CaptureCount; slot++ {
		if slot > 0 && b.settings.Delay > 0 {
			time.Sleep(b.settings.Delay)
		}

		frame, ok := b.pop()
		for attempt := 0; !ok && attempt < b.retries; attempt++ {
			b.count(func(st *model.CaptureStats) { st.Retries++ })
			time.Sleep(b.backoff)
			frame, ok = b.pop()
		}
		if !ok {
			b.count(func(st *model.CaptureStats) { st.Errors++ })
			lgr.Logger.Warn("capture burst failed",
				slog.Int("slot", slot),
				slog.Int("retries", b.retries),
			)
			return nil, model.NewError(model.CodeCaptureFramesUnavailable, op,
				"no frame for slot %d after %d retries", slot, b.retries)
		}

		captures = append(captures, toCapture(frame, b.settings))
	}

	b.count(func(st *model.CaptureStats) { st.Captures += len(captures) })
	lgr.Logger.Debug("capture burst taken",
		slog.String("strategy", StrategyBuffered),
		slog.Int("captures", len(captures)),
	)
	return captures, nil
}

func (b *Buffered) count(fn func(*model.CaptureStats)) {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()
	fn(&b.stats)
}

func (b *Buffered) Stats() model.CaptureStats {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()
	return b.stats
}
