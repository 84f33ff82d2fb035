package pipeline

import (
	"context"
	"image"

	"github.com/google/uuid"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

func newRequestID() string {
	return uuid.NewString()
}

// submit runs fn on the bounded worker pool and delivers exactly one
// outcome. Waiting for a worker respects ctx.
func submit[T any](p *Pipeline, ctx context.Context, op string, fn func(context.Context) (T, error)) <-chan Outcome[T] {
	out := make(chan Outcome[T], 1)

	go func() {
		defer close(out)

		if err := p.pool.Acquire(ctx, 1); err != nil {
			out <- Outcome[T]{Err: model.WrapError(model.CodeCanceled, op, "canceled while waiting for a worker", err)}
			return
		}
		defer p.pool.Release(1)

		v, err := fn(ctx)
		out <- Outcome[T]{Value: v, Err: err}
	}()

	return out
}

func (p *Pipeline) ClassifyAsync(ctx context.Context, req ClassifyRequest) <-chan Outcome[model.ClassificationResult] {
	return submit(p, ctx, "pipeline.classify", func(ctx context.Context) (model.ClassificationResult, error) {
		return p.Classify(ctx, req)
	})
}

func (p *Pipeline) SegmentAsync(ctx context.Context, req SegmentRequest) <-chan Outcome[image.Image] {
	return submit(p, ctx, "pipeline.segment", func(ctx context.Context) (image.Image, error) {
		return p.Segment(ctx, req)
	})
}

func (p *Pipeline) SegmentBatchAsync(ctx context.Context, reqs []SegmentRequest) <-chan Outcome[[]image.Image] {
	return submit(p, ctx, "pipeline.segmentBatch", func(ctx context.Context) ([]image.Image, error) {
		return p.SegmentBatch(ctx, reqs)
	})
}

func (p *Pipeline) InvertAsync(ctx context.Context, req InvertRequest) <-chan Outcome[model.MeshArtifact] {
	return submit(p, ctx, "pipeline.invert", func(ctx context.Context) (model.MeshArtifact, error) {
		return p.Invert(ctx, req)
	})
}
