package contour

import (
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// zone sizes as fractions of the silhouette height
const (
	headHalfWidth         = 0.12
	headHalfHeight        = 0.06
	headTargetHalfWidth   = 0.06
	headTargetHalfHeight  = 0.03
	anklesHalfWidth       = 0.15
	anklesAbove           = 0.08
	anklesBelow           = 0.04
	anklesTargetHalfWidth = 0.08
	anklesTargetAbove     = 0.05
	anklesTargetBelow     = 0.01
)

// GenerateOptimalZones derives the head and ankle zones from the extrema of
// poly. Every rectangle is clipped to the image.
func (g *Generator) GenerateOptimalZones(poly model.Polygon, res model.Resolution) model.OptimalZones {
	zones := model.OptimalZones{}
	if len(poly) == 0 || !res.Valid() {
		return zones
	}

	b := poly.Bounds()
	bh := b.Height()
	cx := b.Center().X

	rect := func(halfWidth, minY, maxY float64) model.Rect {
		return model.Rect{
			MinX: cx - halfWidth*bh,
			MinY: minY,
			MaxX: cx + halfWidth*bh,
			MaxY: maxY,
		}.Clamp(res)
	}

	zones[model.ZoneHead] = rect(headHalfWidth, b.MinY-headHalfHeight*bh, b.MinY+headHalfHeight*bh)
	zones[model.ZoneHeadTarget] = rect(headTargetHalfWidth, b.MinY-headTargetHalfHeight*bh, b.MinY+headTargetHalfHeight*bh)
	zones[model.ZoneAnkles] = rect(anklesHalfWidth, b.MaxY-anklesAbove*bh, b.MaxY+anklesBelow*bh)
	zones[model.ZoneAnklesTarget] = rect(anklesTargetHalfWidth, b.MaxY-anklesTargetAbove*bh, b.MaxY+anklesTargetBelow*bh)
	return zones
}

// IsUserInOptimalZone reports whether the joints a zone tracks lie inside
// rect. Head zones track the head top, ankle zones both ankles. Absent
// joints or unknown keys yield false.
func IsUserInOptimalZone(key string, rect model.Rect, joints model.Joints) bool {
	var keys []string
	switch key {
	case model.ZoneHead, model.ZoneHeadTarget:
		keys = []string{model.JointHeadTop}
	case model.ZoneAnkles, model.ZoneAnklesTarget:
		keys = []string{model.JointLeftAnkle, model.JointRightAnkle}
	default:
		return false
	}

	for _, k := range keys {
		p, ok := joints[k]
		if !ok || !rect.Contains(p) {
			return false
		}
	}
	return true
}
