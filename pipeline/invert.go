package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/inference"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/resource"
)

const meshExtension = ".obj"

// Invert reconstructs a mesh from measurements and writes it as
// <name>.obj into the persisted store.
func (p *Pipeline) Invert(ctx context.Context, req InvertRequest) (artifact model.MeshArtifact, err error) {
	const op = "pipeline.invert"

	if err := p.checkReady(op); err != nil {
		return model.MeshArtifact{}, err
	}

	ctx, r := p.begin(ctx, model.OpInvert)
	defer func() { p.end(r, nil, err) }()

	if err := validateInvert(req); err != nil {
		return model.MeshArtifact{}, err
	}
	if err := checkCanceled(ctx, op); err != nil {
		return model.MeshArtifact{}, err
	}

	male, female, err := p.inversionModels(ctx)
	if err != nil {
		return model.MeshArtifact{}, err
	}
	if err := checkCanceled(ctx, op); err != nil {
		return model.MeshArtifact{}, err
	}

	in := inference.InvertInput{
		Sex:      req.Sex,
		HeightCm: req.HeightCm,
		WeightKg: req.WeightKg,
		Chest:    req.Chest,
		Waist:    req.Waist,
		Hip:      req.Hip,
		Inseam:   req.Inseam,
		Fitness:  req.Fitness,
		CVMale:   male,
		CVFemale: female,
	}
	mesh, err := invokeNative(op, model.CodeInversionFailed, func() (string, error) {
		return p.svcs.InferenceSvc.Invert(in)
	})
	if err != nil {
		return model.MeshArtifact{}, err
	}
	if strings.TrimSpace(mesh) == "" {
		return model.MeshArtifact{}, model.NewError(model.CodeInversionFailed, op, "engine produced no mesh")
	}

	file := strings.TrimSpace(req.Name) + meshExtension
	if err := p.svcs.StorageSvc.WritePersisted(file, []byte(mesh)); err != nil {
		return model.MeshArtifact{}, model.WrapError(model.CodeInversionWriteFailed, op, "writing "+file, err)
	}

	artifact = model.MeshArtifact{
		Name:     strings.TrimSpace(req.Name),
		Path:     p.svcs.StorageSvc.PersistedPath(file),
		HeightCm: req.HeightCm,
	}
	lgr.Logger.Info("mesh written",
		slog.String("path", artifact.Path),
		slog.Int("bytes", len(mesh)),
	)
	return artifact, nil
}

// inversionModels resolves the CV set for both sexes; the engine blends them.
func (p *Pipeline) inversionModels(ctx context.Context) (map[string][]byte, map[string][]byte, error) {
	names := p.svcs.InferenceSvc.ListCVModelNames()

	var male, female map[string][]byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		male, err = p.svcs.ModelCache.Batch(gctx,
			resource.CacheKey{Name: resource.BatchCV, Sex: model.SexMale},
			names, model.ResourceVectorFloat)
		return err
	})
	g.Go(func() error {
		var err error
		female, err = p.svcs.ModelCache.Batch(gctx,
			resource.CacheKey{Name: resource.BatchCV, Sex: model.SexFemale},
			names, model.ResourceVectorFloat)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return male, female, nil
}
