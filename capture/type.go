package capture

import (
	"context"
	"log/slog"
	"time"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/config"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

// Strategy turns analyzer frames into capture bursts. TakeCapture is not
// reentrant: concurrent callers are serialized and never share a frame.
type Strategy interface {
	Name() string
	SetConfig(cfg map[string]string) error
	Settings() Settings
	Analyze(frame model.Frame)
	TakeCapture(ctx context.Context) ([]model.Capture, error)
	Stats() model.CaptureStats
}

// Options seeds a strategy. BufferSize, Retries and Backoff only apply to
// the buffered strategy.
type Options struct {
	Settings   Settings
	BufferSize int
	Retries    int
	Backoff    time.Duration
}

func OptionsFromConfig(cfgsvc config.IService) Options {
	return Options{
		Settings: Settings{
			CaptureCount: cfgsvc.GetCaptureCount(),
			Delay:        cfgsvc.GetCaptureDelay(),
		},
		BufferSize: cfgsvc.GetCaptureBufferSize(),
		Retries:    cfgsvc.GetCaptureRetries(),
		Backoff:    cfgsvc.GetCaptureRetryBackoff(),
	}
}

func (o Options) withDefaults() Options {
	if o.Settings.CaptureCount <= 0 {
		o.Settings.CaptureCount = 2
	}
	if o.BufferSize <= 0 {
		o.BufferSize = 2
	}
	if o.Retries <= 0 {
		o.Retries = 10
	}
	if o.Backoff <= 0 {
		o.Backoff = 100 * time.Millisecond
	}
	return o
}

type Factory func(opts Options) Strategy

var strategies = map[string]Factory{}

func Register(name string, factory Factory) {
	if _, ok := strategies[name]; ok {
		lgr.Logger.Warn("capture strategy already registered", slog.String("name", name))
		return
	}
	strategies[name] = factory
}

// New builds the strategy registered under name.
func New(name string, opts Options) (Strategy, error) {
	factory, ok := strategies[name]
	if !ok {
		return nil, model.NewError(model.CodeCaptureUnknownStrategy, "capture.new", "unknown capture strategy %q", name)
	}
	return factory(opts.withDefaults()), nil
}

func init() {
	Register(StrategySingle, func(opts Options) Strategy { return NewSingle(opts) })
	Register(StrategyBuffered, func(opts Options) Strategy { return NewBuffered(opts) })
}
