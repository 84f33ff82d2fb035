package pose

import (
	"image"
	"log/slog"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/contour"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

type Region string

const (
	RegionFace     Region = "face"
	RegionLeftArm  Region = "leftArm"
	RegionRightArm Region = "rightArm"
	RegionLeftLeg  Region = "leftLeg"
	RegionRightLeg Region = "rightLeg"
)

// Regions lists the tracked regions in inspection order.
var Regions = []Region{RegionFace, RegionLeftArm, RegionRightArm, RegionLeftLeg, RegionRightLeg}

// RegionJoints are the landmarks that must all be detected for a region.
var RegionJoints = map[Region][]string{
	RegionFace:     {model.JointHeadTop, model.JointNose, model.JointNeck},
	RegionLeftArm:  {model.JointLeftShoulder, model.JointLeftElbow, model.JointLeftHand},
	RegionRightArm: {model.JointRightShoulder, model.JointRightElbow, model.JointRightHand},
	RegionLeftLeg:  {model.JointLeftHip, model.JointLeftKnee, model.JointLeftAnkle},
	RegionRightLeg: {model.JointRightHip, model.JointRightKnee, model.JointRightAnkle},
}

// Inspector classifies detected joints against a contour mask. It keeps no
// state between calls.
type Inspector struct {
	// Tolerance is how many pixels a joint may sit outside the mask.
	Tolerance int
}

func NewInspector(tolerance int) *Inspector {
	if tolerance < 0 {
		tolerance = 0
	}
	return &Inspector{Tolerance: tolerance}
}

// Inspect classifies every tracked region. When candidates is empty the
// capture's own joints are the only candidate. The mask must match the
// capture's resolution when the capture carries an image.
func (ins *Inspector) Inspect(capture model.Capture, mask *image.Gray, zones model.OptimalZones, profile model.Profile, candidates []model.Joints) (map[Region]model.InspectionResult, error) {
	const op = "pose.inspect"

	if mask == nil {
		return nil, model.NewError(model.CodePoseInvalidMask, op, "no contour mask")
	}
	if capture.Image != nil && model.ResolutionOf(capture.Image) != model.ResolutionOf(mask) {
		return nil, model.NewError(model.CodePoseInvalidMask, op, "mask is %s, capture is %s",
			model.ResolutionOf(mask), model.ResolutionOf(capture.Image))
	}

	if len(candidates) == 0 && capture.Joints != nil {
		candidates = []model.Joints{capture.Joints}
	}

	results := make(map[Region]model.InspectionResult, len(Regions))
	for _, region := range Regions {
		results[region] = ins.inspectRegion(region, mask, zones, candidates)
	}

	lgr.Logger.Debug("pose.inspect",
		slog.String("capture", capture.ID),
		slog.String("profile", string(profile)),
		slog.Int("candidates", len(candidates)),
		slog.Any("results", results),
	)
	return results, nil
}

func (ins *Inspector) inspectRegion(region Region, mask *image.Gray, zones model.OptimalZones, candidates []model.Joints) model.InspectionResult {
	keys := RegionJoints[region]

	if region == RegionFace && countWithAny(candidates, keys) > 1 {
		return model.MultipleFacesDetected
	}

	best := mostComplete(candidates, keys)
	if best == nil || !best.HasAll(keys) {
		return model.NotDetected
	}

	for _, k := range keys {
		if !contour.InMask(mask, best[k], ins.Tolerance) {
			return model.NotInContour
		}
	}

	if region == RegionFace {
		if zone, ok := zones[model.ZoneHead]; ok && !contour.IsUserInOptimalZone(model.ZoneHead, zone, best) {
			return model.NotInContour
		}
	}
	return model.InContour
}

// mostComplete returns the candidate holding the most of keys. Among equally
// complete candidates the first one seen wins; callers must not rely on it.
func mostComplete(candidates []model.Joints, keys []string) model.Joints {
	var best model.Joints
	bestCount := 0
	for _, c := range candidates {
		if n := c.Count(keys); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func countWithAny(candidates []model.Joints, keys []string) int {
	n := 0
	for _, c := range candidates {
		if c.Count(keys) > 0 {
			n++
		}
	}
	return n
}

// IsInContour reports whether every region of profile is in the contour.
// A profile without results fails.
func IsInContour(profile model.Profile, results map[model.Profile]map[Region]model.InspectionResult) bool {
	byRegion := results[profile]
	if len(byRegion) == 0 {
		return false
	}
	for _, region := range Regions {
		if r, ok := byRegion[region]; !ok || r != model.InContour {
			return false
		}
	}
	return true
}
