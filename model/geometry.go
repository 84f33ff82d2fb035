package model

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered, implicitly closed list of vertices.
type Polygon []Point

// Bounds returns the axis-aligned bounding rectangle of the polygon.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, pt := range p {
		r.MinX = math.Min(r.MinX, pt.X)
		r.MinY = math.Min(r.MinY, pt.Y)
		r.MaxX = math.Max(r.MaxX, pt.X)
		r.MaxY = math.Max(r.MaxY, pt.Y)
	}
	return r
}

func (p Polygon) Equal(o Polygon) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Rect is an axis-aligned rectangle in image space.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Clamp restricts r to [0,res.Width]x[0,res.Height].
func (r Rect) Clamp(res Resolution) Rect {
	w, h := float64(res.Width), float64(res.Height)
	return Rect{
		MinX: clamp(r.MinX, 0, w),
		MinY: clamp(r.MinY, 0, h),
		MaxX: clamp(r.MaxX, 0, w),
		MaxY: clamp(r.MaxY, 0, h),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

const (
	ZoneHead         = "zoneHead"
	ZoneHeadTarget   = "zoneHeadTarget"
	ZoneAnkles       = "zoneAnkles"
	ZoneAnklesTarget = "zoneAnklesTarget"
)

// OptimalZones maps a zone key to its rectangle.
type OptimalZones map[string]Rect
