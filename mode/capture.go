package mode

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/capture"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

type burstResult struct {
	Burst    int      `json:"burst"`
	Captures []string `json:"captures"`
	Files    []string `json:"files,omitempty"`
}

// Capture feeds frames from the configured source into a capture strategy
// and takes the requested number of bursts.
func Capture(canxCtx context.Context, svcs Services, opts Options) error {
	if svcs.Source == nil {
		return xerrors.New("capture needs a frame source")
	}

	strategy, err := capture.New(svcs.CfgSvc.GetCaptureStrategy(), capture.OptionsFromConfig(svcs.CfgSvc))
	if err != nil {
		return err
	}
	if len(opts.CaptureConfig) > 0 {
		if err := strategy.SetConfig(opts.CaptureConfig); err != nil {
			return err
		}
	}

	bursts := opts.Bursts
	if bursts <= 0 {
		bursts = 1
	}

	// The source runs on its own context so it can be stopped once the
	// bursts are done without cancelling the caller.
	sourceCtx, sourceCancel := context.WithCancel(canxCtx)
	defer sourceCancel()

	errorStream := make(chan interface{}, 8)
	statsStream := make(chan interface{})
	sourceDone := make(chan struct{})
	burstsDone := make(chan error, 1)

	go func() {
		defer close(sourceDone)
		if err := capture.Feed(sourceCtx, svcs.Source, strategy); err != nil && sourceCtx.Err() == nil {
			errorStream <- model.GenError("capture_mode",
				err,
				map[string]interface{}{"strategy": strategy.Name()},
				"frame source stopped")
		}
	}()

	go func() {
		burstsDone <- takeBursts(canxCtx, svcs, opts, strategy, bursts, errorStream, statsStream)
	}()

	var result error

	// Wait for cancellation, bursts, stats or errors
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"capture mode context cancelled",
			)
			result = <-burstsDone
			goto resume

		case result = <-burstsDone:
			goto resume

		case s := <-statsStream:
			procStats(svcs.DataSvc, s)

		case e := <-errorStream:
			procError(svcs.DataSvc, e)
		}
	}

	// Wait for the source to let go of the device, bounded by the mode
	// shutdown time.
resume:
	sourceCancel()
	procStats(svcs.DataSvc, strategy.Stats())

	lgr.Logger.Info(
		"capture mode is waiting for the frame source to exit",
	)

	period := time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime()) * time.Second
	timer := time.NewTimer(period)
	defer timer.Stop()

	for {
		select {
		case <-sourceDone:
			return result

		case <-timer.C:
			lgr.Logger.Info(
				"capture mode shutdown waiting period expired. Exiting now",
				slog.Duration("period", period),
			)
			return result

		case e := <-errorStream:
			procError(svcs.DataSvc, e)
		}
	}
}

func takeBursts(ctx context.Context, svcs Services, opts Options, strategy capture.Strategy, bursts int, errorStream, statsStream chan<- interface{}) error {
	for i := 0; i < bursts; i++ {
		started := time.Now()
		captures, err := strategy.TakeCapture(ctx)

		report := model.NewRunReport(uuid.NewString(), model.OpCapture, started, err)
		select {
		case statsStream <- report:
		case <-ctx.Done():
		}

		if err != nil {
			return err
		}

		res := burstResult{Burst: i + 1}
		for _, c := range captures {
			res.Captures = append(res.Captures, c.ID)
		}

		if svcs.Snapshot != nil {
			files, err := svcs.Snapshot(captures)
			if err != nil {
				select {
				case errorStream <- model.GenError("capture_mode",
					err,
					map[string]interface{}{"burst": i + 1},
					"error writing snapshots"):
				case <-ctx.Done():
				}
			}
			res.Files = files
		}

		if err := writeJSON(opts.out(), res); err != nil {
			return err
		}
	}
	return nil
}
