package contour

import (
	"math"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// Supported biometric domain.
const (
	MinHeightCm = 50.0
	MaxHeightCm = 255.0
	MinWeightKg = 16.0
	MaxWeightKg = 300.0
)

const (
	referenceBMI  = 22.0
	minWidthScale = 0.75
	maxWidthScale = 1.6

	// the body spans this fraction of the image height, interpolated over
	// the supported height range
	minBodyFraction = 0.60
	maxBodyFraction = 0.85

	maxTilt = math.Pi / 3
)

// Generator derives ideal silhouettes and the geometry built on them. It
// holds no mutable state and is safe for concurrent use.
type Generator struct {
	coeffs Coefficients
}

func NewGenerator(coeffs Coefficients) *Generator {
	if coeffs == nil {
		coeffs = DefaultCoefficients()
	}
	return &Generator{coeffs: coeffs}
}

// ValidateBiometrics reports whether height and weight lie in the supported domain.
func ValidateBiometrics(heightCm, weightKg float64) bool {
	return heightCm >= MinHeightCm && heightCm <= MaxHeightCm &&
		weightKg >= MinWeightKg && weightKg <= MaxWeightKg
}

// GenerateIdealContour returns the closed outline a person of the given build
// should fill when standing at the capture distance. The outline runs down
// the right edge of the body and back up the left edge.
func (g *Generator) GenerateIdealContour(sex model.Sex, heightCm, weightKg float64, res model.Resolution, tilt float64, profile model.Profile) (model.Polygon, error) {
	const op = "contour.generateIdealContour"

	if !ValidateBiometrics(heightCm, weightKg) {
		return nil, model.NewError(model.CodeContourInvalidHeightWeight, op,
			"height %.1fcm or weight %.1fkg outside [%.0f,%.0f]cm x [%.0f,%.0f]kg",
			heightCm, weightKg, MinHeightCm, MaxHeightCm, MinWeightKg, MaxWeightKg)
	}
	if !res.Valid() {
		return nil, model.NewError(model.CodeContourInvalidResolution, op, "invalid resolution %s", res)
	}

	if math.IsNaN(tilt) || math.IsInf(tilt, 0) {
		return nil, model.NewError(model.CodeContourInvalidPolygon, op, "tilt %v is not a finite angle", tilt)
	}
	anchors, ok := g.coeffs.Anchors(sex, profile)
	if !ok {
		return nil, model.NewError(model.CodeContourInvalidPolygon, op, "no contour coefficients for %s/%s", sex, profile)
	}

	w, h := float64(res.Width), float64(res.Height)

	bmi := weightKg / math.Pow(heightCm/100, 2)
	widthScale := clampf(math.Sqrt(bmi/referenceBMI), minWidthScale, maxWidthScale)

	heightT := (heightCm - MinHeightCm) / (MaxHeightCm - MinHeightCm)
	bodyPx := h * (minBodyFraction + (maxBodyFraction-minBodyFraction)*heightT)

	tilt = clampf(tilt, -maxTilt, maxTilt)
	visiblePx := bodyPx * math.Cos(tilt)
	keystone := math.Sin(tilt) * 0.5

	top := (h - visiblePx) / 2
	cx := w / 2

	point := func(a Anchor, side float64) model.Point {
		half := a.Right
		if side < 0 {
			half = a.Left
		}
		k := 1 + keystone*(a.Y-0.5)
		return model.Point{
			X: clampf(cx+side*half*bodyPx*widthScale*k, 0, w),
			Y: clampf(top+a.Y*visiblePx, 0, h),
		}
	}

	poly := make(model.Polygon, 0, 2*len(anchors))
	for _, a := range anchors {
		poly = append(poly, point(a, 1))
	}
	for i := len(anchors) - 1; i >= 0; i-- {
		poly = append(poly, point(anchors[i], -1))
	}
	return poly, nil
}

// ankleFraction is where the ankles sit along the silhouette's height.
const ankleFraction = 0.96

// GenerateScaledContour moves and scales poly so its head top and ankles land
// on the detected head top and ankles. The horizontal centre follows the
// hips, falling back to the neck and then the head top.
func (g *Generator) GenerateScaledContour(poly model.Polygon, joints model.Joints) (model.Polygon, error) {
	const op = "contour.generateScaledContour"

	if len(poly) < 3 {
		return nil, model.NewError(model.CodeContourInvalidPolygon, op, "polygon has %d points", len(poly))
	}

	head, ok := joints[model.JointHeadTop]
	if !ok {
		return nil, model.NewError(model.CodeContourMissingJoints, op, "missing %s", model.JointHeadTop)
	}
	ankleY, ok := meanY(joints, model.JointLeftAnkle, model.JointRightAnkle)
	if !ok {
		return nil, model.NewError(model.CodeContourMissingJoints, op, "missing ankle joints")
	}

	b := poly.Bounds()
	refAnkle := b.MinY + ankleFraction*b.Height()
	if refAnkle-b.MinY <= 0 || ankleY-head.Y <= 0 {
		return nil, model.NewError(model.CodeContourMissingJoints, op,
			"head top at %.1f is not above ankles at %.1f", head.Y, ankleY)
	}
	scale := (ankleY - head.Y) / (refAnkle - b.MinY)

	targetX := head.X
	if x, ok := meanX(joints, model.JointLeftHip, model.JointRightHip); ok {
		targetX = x
	} else if neck, ok := joints[model.JointNeck]; ok {
		targetX = neck.X
	}
	refX := b.Center().X

	out := make(model.Polygon, len(poly))
	for i, p := range poly {
		out[i] = model.Point{
			X: targetX + (p.X-refX)*scale,
			Y: head.Y + (p.Y-b.MinY)*scale,
		}
	}
	return out, nil
}

func meanY(joints model.Joints, keys ...string) (float64, bool) {
	p, ok := mean(joints, keys...)
	return p.Y, ok
}

func meanX(joints model.Joints, keys ...string) (float64, bool) {
	p, ok := mean(joints, keys...)
	return p.X, ok
}

// mean averages the listed joints; every key must be present.
func mean(joints model.Joints, keys ...string) (model.Point, bool) {
	var sum model.Point
	for _, k := range keys {
		p, ok := joints[k]
		if !ok {
			return model.Point{}, false
		}
		sum.X += p.X
		sum.Y += p.Y
	}
	n := float64(len(keys))
	return model.Point{X: sum.X / n, Y: sum.Y / n}, true
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
