package capture

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

const (
	StrategySingle   = "single"
	StrategyBuffered = "buffered"
)

// Single keeps only the most recent frame and copies it CaptureCount times
// per burst. A frame is consumed by the burst that used it.
type Single struct {
	frameMu sync.Mutex
	latest  *model.Frame
	stats   model.CaptureStats

	captureMu sync.Mutex
	settings  Settings
	retries   int
	backoff   time.Duration
}

func NewSingle(opts Options) *Single {
	opts = opts.withDefaults()
	return &Single{
		settings: opts.Settings,
		retries:  opts.Retries,
		backoff:  opts.Backoff,
		stats:    model.CaptureStats{Name: StrategySingle},
	}
}

func (s *Single) Name() string { return StrategySingle }

// SetConfig waits for any burst in flight.
func (s *Single) SetConfig(cfg map[string]string) error {
	s.captureMu.Lock()
	defer s.captureMu.Unlock()

	next, err := s.settings.apply(cfg)
	if err != nil {
		return err
	}
	s.settings = next
	return nil
}

func (s *Single) Settings() Settings {
	s.captureMu.Lock()
	defer s.captureMu.Unlock()
	return s.settings
}

func (s *Single) Analyze(frame model.Frame) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	if s.latest != nil {
		s.stats.Dropped++
	}
	s.latest = &frame
	s.stats.Frames++
}

func (s *Single) take() (model.Frame, bool) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	if s.latest == nil {
		return model.Frame{}, false
	}
	frame := *s.latest
	s.latest = nil
	return frame, true
}

func (s *Single) TakeCapture(ctx context.Context) ([]model.Capture, error) {
	const op = "capture.single.takeCapture"

	if err := ctx.Err(); err != nil {
		return nil, model.WrapError(model.CodeCanceled, op, "capture canceled", err)
	}

	s.captureMu.Lock()
	defer s.captureMu.Unlock()

	frame, ok := s.take()
	for attempt := 0; !ok && attempt < s.retries; attempt++ {
		s.count(func(st *model.CaptureStats) { st.Retries++ })
		time.Sleep(s.backoff)
		frame, ok = s.take()
	}
	if !ok {
		s.count(func(st *model.CaptureStats) { st.Errors++ })
		return nil, model.NewError(model.CodeCaptureFramesUnavailable, op, "no frame after %d retries", s.retries)
	}

	captures := make([]model.Capture, 0, s.settings.CaptureCount)
	for i := 0; i < s.settings.CaptureCount; i++ {
		if i > 0 && s.settings.Delay > 0 {
			time.Sleep(s.settings.Delay)
		}
		captures = append(captures, toCapture(frame, s.settings))
	}

	s.count(func(st *model.CaptureStats) { st.Captures += len(captures) })
	lgr.Logger.Debug("capture burst taken",
		slog.String("strategy", StrategySingle),
		slog.String("frame", frame.ID),
		slog.Int("captures", len(captures)),
	)
	return captures, nil
}

func (s *Single) count(fn func(*model.CaptureStats)) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	fn(&s.stats)
}

func (s *Single) Stats() model.CaptureStats {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	return s.stats
}
