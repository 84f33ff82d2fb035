package mode

import (
	"context"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"golang.org/x/xerrors"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/pipeline"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

// flagSex folds the --sex flag to its canonical spelling. Unknown values pass
// through unchanged so the pipeline reports them as invalid input.
func flagSex(s string) model.Sex {
	if sex, err := model.ParseSex(s); err == nil {
		return sex
	}
	return model.Sex(s)
}

// Classify runs the measurement pipeline over the front and side images.
func Classify(canxCtx context.Context, svcs Services, opts Options) error {
	groupings, err := loadGroupings(opts)
	if err != nil {
		return err
	}

	result, err := svcs.Pipeline.Classify(canxCtx, pipeline.ClassifyRequest{
		Sex:        flagSex(opts.Sex),
		HeightCm:   opts.HeightCm,
		WeightKg:   opts.WeightKg,
		Captures:   groupings,
		UseAverage: opts.UseAverage,
	})
	if err != nil {
		return err
	}
	return writeJSON(opts.out(), result)
}

// Segment cuts the person out of one capture and saves the result. Without
// a mask file the contour for the options' build is used.
func Segment(canxCtx context.Context, svcs Services, opts Options) error {
	if opts.Output == "" {
		return xerrors.New("segment needs an output path")
	}

	c, err := loadCapture(opts.Image, opts.Joints)
	if err != nil {
		return err
	}
	profile, err := parseProfile(opts.Profile)
	if err != nil {
		return err
	}

	var mask image.Image
	if opts.Mask != "" {
		mask, err = loadMask(opts.Mask)
	} else {
		var set contourSet
		set, err = buildContour(canxCtx, svcs, opts, c.Joints)
		mask = set.mask
	}
	if err != nil {
		return err
	}

	out, err := svcs.Pipeline.Segment(canxCtx, pipeline.SegmentRequest{
		Capture: c,
		Mask:    mask,
		Profile: profile,
	})
	if err != nil {
		return err
	}

	if err := imaging.Save(out, opts.Output); err != nil {
		return xerrors.Errorf("saving segmentation %s: %w", opts.Output, err)
	}
	lgr.Logger.Info("segmentation saved", slog.String("path", opts.Output))
	return writeJSON(opts.out(), map[string]string{"path": opts.Output})
}

// Invert reconstructs and stores a mesh for the given measurements.
func Invert(canxCtx context.Context, svcs Services, opts Options) error {
	artifact, err := svcs.Pipeline.Invert(canxCtx, pipeline.InvertRequest{
		Name:     opts.Name,
		Sex:      flagSex(opts.Sex),
		HeightCm: opts.HeightCm,
		WeightKg: opts.WeightKg,
		Chest:    opts.Chest,
		Waist:    opts.Waist,
		Hip:      opts.Hip,
		Inseam:   opts.Inseam,
		Fitness:  opts.Fitness,
	})
	if err != nil {
		return err
	}
	return writeJSON(opts.out(), artifact)
}
