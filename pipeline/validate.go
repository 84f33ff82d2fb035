package pipeline

import (
	"strings"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/contour"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// validateSex accepts only the canonical spellings. Model file names and
// cache keys are built from the value as given, so "Male" must not pass.
func validateSex(op string, sex model.Sex) error {
	if sex != model.SexMale && sex != model.SexFemale {
		return model.NewError(model.CodeInvalidSex, op, "sex must be %q or %q, got %q", model.SexMale, model.SexFemale, sex)
	}
	return nil
}

func validateClassify(req ClassifyRequest) error {
	const op = "pipeline.classify.validate"

	if !contour.ValidateBiometrics(req.HeightCm, req.WeightKg) {
		return model.NewError(model.CodeClassificationInvalidHeightWeight, op,
			"height %.1fcm must be in [%.0f,%.0f] and weight %.1fkg in [%.0f,%.0f]",
			req.HeightCm, contour.MinHeightCm, contour.MaxHeightCm,
			req.WeightKg, contour.MinWeightKg, contour.MaxWeightKg)
	}
	if len(req.Captures) == 0 {
		return model.NewError(model.CodeClassificationNoCaptures, op, "at least one capture grouping is required")
	}

	for i, g := range req.Captures {
		for _, c := range []struct {
			profile model.Profile
			capture model.Capture
		}{{model.ProfileFront, g.Front}, {model.ProfileSide, g.Side}} {
			if res := model.ResolutionOf(c.capture.Image); res != model.CaptureResolution {
				return model.NewError(model.CodeClassificationWrongResolution, op,
					"grouping %d %s image is %s, want %s", i, c.profile, res, model.CaptureResolution)
			}
		}
	}

	for i, g := range req.Captures {
		if missing := g.Front.Joints.Missing(model.RequiredJoints); len(missing) > 0 {
			return model.NewError(model.CodeClassificationMissingJoints, op,
				"grouping %d front joints missing %v", i, missing)
		}
		if missing := g.Side.Joints.Missing(model.RequiredJoints); len(missing) > 0 {
			return model.NewError(model.CodeClassificationMissingJoints, op,
				"grouping %d side joints missing %v", i, missing)
		}
	}

	return validateSex(op, req.Sex)
}

func validateSegment(req SegmentRequest) error {
	const op = "pipeline.segment.validate"

	if res := model.ResolutionOf(req.Capture.Image); res != model.CaptureResolution {
		return model.NewError(model.CodeSegmentationWrongCaptureResolution, op,
			"capture is %s, want %s", res, model.CaptureResolution)
	}
	if res := model.ResolutionOf(req.Mask); res != model.CaptureResolution {
		return model.NewError(model.CodeSegmentationWrongMaskResolution, op,
			"mask is %s, want %s", res, model.CaptureResolution)
	}
	if !req.Capture.Joints.HasExactly(model.RequiredJoints) {
		return model.NewError(model.CodeSegmentationMissingJoints, op,
			"joints must hold exactly the %d required keys, got %d (missing %v)",
			len(model.RequiredJoints), len(req.Capture.Joints), req.Capture.Joints.Missing(model.RequiredJoints))
	}
	return nil
}

func validateSegmentBatch(reqs []SegmentRequest) error {
	if len(reqs) == 0 {
		return model.NewError(model.CodeSegmentationNoCaptures, "pipeline.segmentBatch.validate", "no captures to segment")
	}
	for _, req := range reqs {
		if err := validateSegment(req); err != nil {
			return err
		}
	}
	return nil
}

func validateInvert(req InvertRequest) error {
	const op = "pipeline.invert.validate"

	if strings.TrimSpace(req.Name) == "" {
		return model.NewError(model.CodeInversionNameMissing, op, "an output name is required")
	}
	if req.HeightCm <= 0 || req.WeightKg <= 0 {
		return model.NewError(model.CodeInversionInvalidHeightWeight, op,
			"height %.1f and weight %.1f must be positive", req.HeightCm, req.WeightKg)
	}
	return validateSex(op, req.Sex)
}
