package mode

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/capture"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/contour"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/pipeline"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/pose"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/data"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

// Services is everything a mode processor may use. Source and Snapshot are
// only needed by the capture mode.
type Services struct {
	pipeline.ServicesFactory

	Pipeline  *pipeline.Pipeline
	Generator *contour.Generator
	Inspector *pose.Inspector
	Source    capture.Source
	Snapshot  func(captures []model.Capture) ([]string, error)
}

type Processor func(canxCtx context.Context, svcs Services, opts Options) error

// Options carries the command line inputs. Each mode reads only the fields
// it needs.
type Options struct {
	Sex      string
	HeightCm float64
	WeightKg float64
	Profile  string
	Tilt     float64

	// Images and joints files, paired by index.
	Front       []string
	FrontJoints []string
	Side        []string
	SideJoints  []string
	UseAverage  bool

	Image  string
	Joints string
	Mask   string

	Name    string
	Chest   float64
	Waist   float64
	Hip     float64
	Inseam  float64
	Fitness float64

	Bursts        int
	CaptureConfig map[string]string

	Operation string
	Max       int

	// Output is a file path for image results. Out receives JSON results.
	Output string
	Out    io.Writer
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func procStats(datasvc data.IService, stats interface{}) {
	if datasvc == nil {
		return
	}

	switch stats := stats.(type) {
	case model.CaptureStats:
		procCaptureStats(datasvc, stats)
	case model.RunReport:
		procRunReport(datasvc, stats)
	default:
		lgr.Logger.Error(
			"unknown stats type",
			slog.Any("stats", stats),
		)
	}
}

func procCaptureStats(datasvc data.IService, stats model.CaptureStats) {
	err := datasvc.NewCaptureStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store capture stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procRunReport(datasvc data.IService, report model.RunReport) {
	err := datasvc.NewRunReport(report)
	if err != nil {
		lgr.Logger.Error(
			"failed to store run report",
			slog.String("id", report.ID),
			slog.Any("error", err),
		)
	}
}

func procError(datasvc data.IService, err interface{}) {
	if datasvc == nil {
		return
	}

	errTemp := datasvc.NewError(err)
	if errTemp != nil {
		lgr.Logger.Error(
			"failed to store error",
			slog.Any("error", errTemp),
		)
	}
}
