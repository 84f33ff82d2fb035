package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/inference"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/resource"
)

// Classify validates the request, resolves the ML and per-sex SVR model sets
// and asks the engine for measurements.
func (p *Pipeline) Classify(ctx context.Context, req ClassifyRequest) (result model.ClassificationResult, err error) {
	const op = "pipeline.classify"

	if err := p.checkReady(op); err != nil {
		return nil, err
	}

	ctx, r := p.begin(ctx, model.OpClassify)
	defer func() { p.end(r, result, err) }()

	if err := validateClassify(req); err != nil {
		return nil, err
	}
	if err := checkCanceled(ctx, op); err != nil {
		return nil, err
	}

	mlModels, svrModels, err := p.classificationModels(ctx, req.Sex)
	if err != nil {
		return nil, err
	}
	if err := checkCanceled(ctx, op); err != nil {
		return nil, err
	}

	in := inference.ClassifyInput{
		HeightCm:   req.HeightCm,
		WeightKg:   req.WeightKg,
		Sex:        req.Sex,
		MLModels:   mlModels,
		SVRModels:  svrModels,
		UseAverage: req.UseAverage,
	}
	for _, g := range req.Captures {
		in.FrontImages = append(in.FrontImages, inference.FromImage(g.Front.Image))
		in.SideImages = append(in.SideImages, inference.FromImage(g.Side.Image))
		in.FrontJoints = append(in.FrontJoints, g.Front.Joints.Clone())
		in.SideJoints = append(in.SideJoints, g.Side.Joints.Clone())
	}

	out, err := invokeNative(op, model.CodeClassificationFailed, func() (map[string]float64, error) {
		return p.svcs.InferenceSvc.Classify(in)
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, model.NewError(model.CodeClassificationFailed, op, "engine produced no measurements")
	}

	lgr.Logger.Debug("classification done",
		slog.String("sex", string(req.Sex)),
		slog.Int("groupings", len(req.Captures)),
		slog.Int("measurements", len(out)),
	)
	return model.ClassificationResult(out), nil
}

func (p *Pipeline) classificationModels(ctx context.Context, sex model.Sex) (map[string][]byte, map[string][]byte, error) {
	var ml, svr map[string][]byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ml, err = p.svcs.ModelCache.Batch(gctx,
			resource.CacheKey{Name: resource.BatchML},
			p.svcs.InferenceSvc.ListMLModelNames(), model.ResourceML)
		return err
	})
	g.Go(func() error {
		var err error
		svr, err = p.svcs.ModelCache.Batch(gctx,
			resource.CacheKey{Name: resource.BatchSVR, Sex: sex},
			p.svcs.InferenceSvc.ListSVRModelNames(), model.ResourceSVR)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return ml, svr, nil
}
