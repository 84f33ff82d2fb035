package mode

import (
	"context"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"golang.org/x/xerrors"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/contour"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/pose"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

type contourResult struct {
	Sex        model.Sex          `json:"sex"`
	Profile    model.Profile      `json:"profile"`
	Resolution model.Resolution   `json:"resolution"`
	Polygon    model.Polygon      `json:"polygon"`
	Zones      model.OptimalZones `json:"zones"`
	Scaled     bool               `json:"scaled"`
	Mask       string             `json:"mask,omitempty"`
}

type contourSet struct {
	result contourResult
	mask   *image.Gray
}

// buildContour generates the ideal outline for the options' build, fitted to
// joints when they are given, together with its mask and zones.
func buildContour(ctx context.Context, svcs Services, opts Options, joints model.Joints) (contourSet, error) {
	sex, err := model.ParseSex(opts.Sex)
	if err != nil {
		return contourSet{}, err
	}
	profile, err := parseProfile(opts.Profile)
	if err != nil {
		return contourSet{}, err
	}

	gen := svcs.Generator
	if gen == nil {
		coeffs := contour.DefaultCoefficients()
		if svcs.ResourceSvc != nil {
			coeffs, err = contour.LoadCoefficients(ctx, svcs.ResourceSvc, sex, profile)
			if err != nil {
				return contourSet{}, err
			}
		}
		gen = contour.NewGenerator(coeffs)
	}

	res := model.CaptureResolution
	if svcs.CfgSvc != nil {
		res = svcs.CfgSvc.GetCaptureResolution()
	}

	poly, err := gen.GenerateIdealContour(sex, opts.HeightCm, opts.WeightKg, res, opts.Tilt, profile)
	if err != nil {
		return contourSet{}, err
	}

	scaled := false
	if len(joints) > 0 {
		poly, err = gen.GenerateScaledContour(poly, joints)
		if err != nil {
			return contourSet{}, err
		}
		scaled = true
	}

	mask, err := gen.GenerateContourMask(poly, res)
	if err != nil {
		return contourSet{}, err
	}

	return contourSet{
		result: contourResult{
			Sex:        sex,
			Profile:    profile,
			Resolution: res,
			Polygon:    poly,
			Zones:      gen.GenerateOptimalZones(poly, res),
			Scaled:     scaled,
		},
		mask: mask,
	}, nil
}

// Contour prints the outline and zones for a build and optionally saves the
// mask as an image.
func Contour(canxCtx context.Context, svcs Services, opts Options) error {
	joints, err := loadJoints(opts.Joints)
	if err != nil {
		return err
	}

	set, err := buildContour(canxCtx, svcs, opts, joints)
	if err != nil {
		procError(svcs.DataSvc, model.GenError("contour_mode",
			err,
			map[string]interface{}{"sex": opts.Sex, "profile": opts.Profile},
			"error generating contour"))
		return err
	}

	if opts.Output != "" {
		if err := imaging.Save(set.mask, opts.Output); err != nil {
			return xerrors.Errorf("saving mask %s: %w", opts.Output, err)
		}
		set.result.Mask = opts.Output
	}

	lgr.Logger.Info("contour generated",
		slog.String("profile", string(set.result.Profile)),
		slog.Int("points", len(set.result.Polygon)),
		slog.Bool("scaled", set.result.Scaled),
	)
	return writeJSON(opts.out(), set.result)
}

type inspectResult struct {
	Profile   model.Profile                          `json:"profile"`
	Regions   map[pose.Region]model.InspectionResult `json:"regions"`
	InContour bool                                   `json:"inContour"`
	Zones     map[string]bool                        `json:"zones"`
}

// Inspect checks a set of detected joints against the ideal contour for the
// options' build.
func Inspect(canxCtx context.Context, svcs Services, opts Options) error {
	joints, err := loadJoints(opts.Joints)
	if err != nil {
		return err
	}
	if len(joints) == 0 {
		return xerrors.New("inspect needs a joints file")
	}

	set, err := buildContour(canxCtx, svcs, opts, nil)
	if err != nil {
		return err
	}

	c := model.Capture{ID: opts.Joints, Joints: joints}
	if opts.Image != "" {
		if c.Image, err = loadImage(opts.Image); err != nil {
			return err
		}
	}

	inspector := svcs.Inspector
	if inspector == nil {
		tolerance := 0
		if svcs.CfgSvc != nil {
			tolerance = svcs.CfgSvc.GetPoseTolerance()
		}
		inspector = pose.NewInspector(tolerance)
	}

	regions, err := inspector.Inspect(c, set.mask, set.result.Zones, set.result.Profile, nil)
	if err != nil {
		return err
	}

	zones := map[string]bool{}
	for key, rect := range set.result.Zones {
		zones[key] = contour.IsUserInOptimalZone(key, rect, joints)
	}

	byProfile := map[model.Profile]map[pose.Region]model.InspectionResult{set.result.Profile: regions}
	return writeJSON(opts.out(), inspectResult{
		Profile:   set.result.Profile,
		Regions:   regions,
		InContour: pose.IsInContour(set.result.Profile, byProfile),
		Zones:     zones,
	})
}
