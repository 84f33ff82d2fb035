package contour

import (
	"context"
	"fmt"
	"math"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/resource"
)

// Anchor is one horizontal slice of the silhouette. Y runs from 0 (head top)
// to 1 (soles); Left and Right are half-widths as fractions of body height.
// For the side profile Left is the back and Right the front of the body.
type Anchor struct {
	Y     float64
	Left  float64
	Right float64
}

// Coefficients holds one anchor table per sex and profile.
type Coefficients map[model.Sex]map[model.Profile][]Anchor

// minAnchors keeps every generated polygon above ten vertices.
const minAnchors = 6

func sym(y, w float64) Anchor { return Anchor{Y: y, Left: w, Right: w} }

func DefaultCoefficients() Coefficients {
	return Coefficients{
		model.SexMale: {
			model.ProfileFront: {
				sym(0.00, 0.030), sym(0.03, 0.052), sym(0.08, 0.058), sym(0.12, 0.034),
				sym(0.16, 0.118), sym(0.22, 0.125), sym(0.30, 0.112), sym(0.40, 0.098),
				sym(0.48, 0.102), sym(0.55, 0.090), sym(0.65, 0.072), sym(0.75, 0.058),
				sym(0.88, 0.046), sym(0.97, 0.052), sym(1.00, 0.055),
			},
			model.ProfileSide: {
				{0.00, 0.030, 0.030}, {0.03, 0.058, 0.050}, {0.08, 0.062, 0.058}, {0.12, 0.036, 0.028},
				{0.16, 0.052, 0.048}, {0.24, 0.058, 0.066}, {0.34, 0.052, 0.060}, {0.42, 0.050, 0.062},
				{0.50, 0.066, 0.052}, {0.60, 0.052, 0.048}, {0.72, 0.040, 0.038}, {0.86, 0.034, 0.030},
				{0.97, 0.036, 0.060}, {1.00, 0.036, 0.070},
			},
		},
		model.SexFemale: {
			model.ProfileFront: {
				sym(0.00, 0.028), sym(0.03, 0.050), sym(0.08, 0.055), sym(0.12, 0.031),
				sym(0.16, 0.102), sym(0.22, 0.106), sym(0.30, 0.100), sym(0.40, 0.086),
				sym(0.48, 0.110), sym(0.55, 0.100), sym(0.65, 0.074), sym(0.75, 0.056),
				sym(0.88, 0.043), sym(0.97, 0.048), sym(1.00, 0.050),
			},
			model.ProfileSide: {
				{0.00, 0.028, 0.028}, {0.03, 0.055, 0.048}, {0.08, 0.060, 0.055}, {0.12, 0.033, 0.026},
				{0.16, 0.048, 0.050}, {0.24, 0.052, 0.074}, {0.34, 0.048, 0.060}, {0.42, 0.052, 0.056},
				{0.50, 0.072, 0.054}, {0.60, 0.056, 0.050}, {0.72, 0.040, 0.038}, {0.86, 0.032, 0.029},
				{0.97, 0.034, 0.056}, {1.00, 0.034, 0.066},
			},
		},
	}
}

func (c Coefficients) Anchors(sex model.Sex, profile model.Profile) ([]Anchor, bool) {
	anchors, ok := c[sex][profile]
	return anchors, ok && len(anchors) >= minAnchors
}

// With returns a copy of c with the table for sex and profile replaced.
func (c Coefficients) With(sex model.Sex, profile model.Profile, anchors []Anchor) Coefficients {
	out := Coefficients{}
	for s, byProfile := range c {
		out[s] = map[model.Profile][]Anchor{}
		for p, a := range byProfile {
			out[s][p] = a
		}
	}
	if out[sex] == nil {
		out[sex] = map[model.Profile][]Anchor{}
	}
	out[sex][profile] = anchors
	return out
}

// ResourceName is the VectorFloat resource holding the anchors for profile.
func ResourceName(profile model.Profile) string {
	return fmt.Sprintf("contour_%s", profile)
}

// Resolver is the part of the resource resolver the generator needs.
type Resolver interface {
	Resolve(ctx context.Context, d model.ResourceDescriptor) ([]byte, error)
}

// LoadCoefficients reads the anchor table for sex and profile as (y, left,
// right) triples and merges it over the defaults. A missing resource keeps
// the defaults.
func LoadCoefficients(ctx context.Context, resolver Resolver, sex model.Sex, profile model.Profile) (Coefficients, error) {
	defaults := DefaultCoefficients()

	d := model.NewResource(ResourceName(profile), model.ResourceVectorFloat).ForSex(sex)
	data, err := resolver.Resolve(ctx, d)
	if model.IsCode(err, model.CodeResourceNotFound) {
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}

	values, err := resource.DecodeVectorFloat(data)
	if err != nil {
		return nil, err
	}
	if len(values)%3 != 0 || len(values)/3 < minAnchors {
		return nil, model.NewError(model.CodeResourceDecodeFailed, "contour.coefficients",
			"%s holds %d values, want at least %d (y, left, right) triples", d.FileName(), len(values), minAnchors)
	}

	anchors := make([]Anchor, 0, len(values)/3)
	for i := 0; i < len(values); i += 3 {
		a := Anchor{
			Y:     float64(values[i]),
			Left:  float64(values[i+1]),
			Right: float64(values[i+2]),
		}
		if err := checkAnchor(a, anchors); err != nil {
			return nil, model.NewError(model.CodeResourceDecodeFailed, "contour.coefficients",
				"%s anchor %d: %v", d.FileName(), len(anchors), err)
		}
		anchors = append(anchors, a)
	}
	return defaults.With(sex, profile, anchors), nil
}

// checkAnchor keeps loaded tables in the shape the generator walks: Y inside
// [0,1] and strictly increasing, half-widths non-negative. The negated
// comparisons also reject NaN.
func checkAnchor(a Anchor, prev []Anchor) error {
	if !(a.Y >= 0 && a.Y <= 1) {
		return fmt.Errorf("y %v outside [0,1]", a.Y)
	}
	if n := len(prev); n > 0 && !(a.Y > prev[n-1].Y) {
		return fmt.Errorf("y %v does not follow %v", a.Y, prev[n-1].Y)
	}
	if !(a.Left >= 0 && a.Right >= 0) || math.IsInf(a.Left, 0) || math.IsInf(a.Right, 0) {
		return fmt.Errorf("half-widths %v/%v must be finite and non-negative", a.Left, a.Right)
	}
	return nil
}
