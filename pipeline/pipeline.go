package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/semaphore"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/resource"
)

const tracerName = "github.com/DraculaSOTD/AHI-Flutter-Body-sub002/pipeline"

// Pipeline sequences validation, resource resolution, native inference and
// persistence for classification, segmentation and inversion. Each stage
// starts only after the previous one succeeded.
type Pipeline struct {
	svcs ServicesFactory
	pool *semaphore.Weighted

	ready atomic.Bool
}

func New(svcs ServicesFactory) *Pipeline {
	size := 4
	if svcs.CfgSvc != nil && svcs.CfgSvc.GetWorkerPoolSize() > 0 {
		size = svcs.CfgSvc.GetWorkerPoolSize()
	}
	return &Pipeline{
		svcs: svcs,
		pool: semaphore.NewWeighted(int64(size)),
	}
}

// Setup checks the collaborators and fills in the optional ones. Every
// operation fails with SetupNotDone until Setup has succeeded.
func (p *Pipeline) Setup(ctx context.Context) error {
	const op = "pipeline.setup"

	if err := ctx.Err(); err != nil {
		return model.WrapError(model.CodeCanceled, op, "setup canceled", err)
	}

	var missing []string
	if p.svcs.CfgSvc == nil {
		missing = append(missing, "config")
	}
	if p.svcs.StorageSvc == nil {
		missing = append(missing, "storage")
	}
	if p.svcs.ResourceSvc == nil && p.svcs.ModelCache == nil {
		missing = append(missing, "resource")
	}
	if p.svcs.InferenceSvc == nil {
		missing = append(missing, "inference")
	}
	if len(missing) > 0 {
		return model.NewError(model.CodeSetupNotDone, op, "missing services %v", missing)
	}

	if p.svcs.ModelCache == nil {
		p.svcs.ModelCache = resource.NewCache(p.svcs.ResourceSvc)
	}
	if p.svcs.Tracer == nil {
		p.svcs.Tracer = noop.NewTracerProvider().Tracer(tracerName)
	}

	p.ready.Store(true)
	lgr.Logger.Info("pipeline ready",
		slog.String("segmentationModel", p.segmentationModelName()),
		slog.Int("mlModels", len(p.svcs.InferenceSvc.ListMLModelNames())),
		slog.Int("svrModels", len(p.svcs.InferenceSvc.ListSVRModelNames())),
		slog.Int("cvModels", len(p.svcs.InferenceSvc.ListCVModelNames())),
	)
	return nil
}

func (p *Pipeline) checkReady(op string) error {
	if !p.ready.Load() {
		return model.NewError(model.CodeSetupNotDone, op, "pipeline used before Setup")
	}
	return nil
}

func (p *Pipeline) segmentationModelName() string {
	if name := p.svcs.InferenceSvc.SegmentationModelName(); name != "" {
		return name
	}
	return p.svcs.CfgSvc.GetSegmentationModelName()
}

// run is the common frame of every operation: a span, a request ID and a
// run report around fn.
type run struct {
	id      string
	op      model.Operation
	started time.Time
	span    trace.Span
}

func (p *Pipeline) begin(ctx context.Context, op model.Operation) (context.Context, *run) {
	r := &run{id: newRequestID(), op: op, started: time.Now()}

	tracer := p.svcs.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(tracerName)
	}
	ctx, r.span = tracer.Start(ctx, "pipeline."+string(op),
		trace.WithAttributes(attribute.String("request.id", r.id)))

	lgr.Logger.Debug("pipeline run started",
		slog.String("request", r.id),
		slog.String("op", string(op)),
	)
	return ctx, r
}

func (p *Pipeline) end(r *run, measurements map[string]float64, err error) {
	report := model.NewRunReport(r.id, r.op, r.started, err)
	report.Measurements = measurements

	r.span.SetAttributes(
		attribute.String("result.code", string(report.Code)),
		attribute.Int("result.legacyCode", report.LegacyCode),
	)
	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, string(report.Kind))
		lgr.Logger.Warn("pipeline run failed",
			slog.String("request", r.id),
			slog.String("op", string(r.op)),
			slog.String("kind", string(report.Kind)),
			slog.Any("error", err),
		)
	} else {
		lgr.Logger.Info("pipeline run completed",
			slog.String("request", r.id),
			slog.String("op", string(r.op)),
			slog.Int64("durationMs", report.DurationMs),
		)
	}
	r.span.End()

	if p.svcs.DataSvc == nil {
		return
	}
	if reportErr := p.svcs.DataSvc.NewRunReport(report); reportErr != nil {
		lgr.Logger.Error("failed to store run report",
			slog.String("request", r.id),
			slog.Any("error", reportErr),
		)
	}
}

// checkCanceled turns a done context into a Canceled failure.
func checkCanceled(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return model.WrapError(model.CodeCanceled, op, "canceled", err)
	}
	return nil
}

// invokeNative calls into the engine, turning errors and panics into code.
func invokeNative[T any](op string, code model.Code, fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			lgr.Logger.Error("native call panicked",
				slog.String("op", op),
				slog.Any("panic", r),
			)
			var zero T
			out, err = zero, model.NewError(code, op, "native call panicked: %v", r)
		}
	}()

	out, err = fn()
	if err != nil {
		return out, model.WrapError(code, op, "native call failed", err)
	}
	return out, nil
}
