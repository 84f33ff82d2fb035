package contour

import (
	"image"
	"image/color"

	"golang.org/x/image/vector"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

const (
	MaskInside  = 255
	MaskOutside = 0
)

// GenerateContourMask rasterizes poly into a binary mask of exactly res.
func (g *Generator) GenerateContourMask(poly model.Polygon, res model.Resolution) (*image.Gray, error) {
	const op = "contour.generateContourMask"

	if !res.Valid() {
		return nil, model.NewError(model.CodeContourInvalidResolution, op, "invalid resolution %s", res)
	}
	if len(poly) < 3 {
		return nil, model.NewError(model.CodeContourInvalidPolygon, op, "polygon has %d points", len(poly))
	}

	bounds := image.Rect(0, 0, res.Width, res.Height)

	z := vector.NewRasterizer(res.Width, res.Height)
	z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()

	coverage := image.NewAlpha(bounds)
	z.Draw(coverage, bounds, image.Opaque, image.Point{})

	mask := image.NewGray(bounds)
	for i, a := range coverage.Pix {
		if a >= 128 {
			mask.Pix[i] = MaskInside
		}
	}
	return mask, nil
}

// InMask reports whether p, or any pixel within tolerance of it, is inside mask.
func InMask(mask *image.Gray, p model.Point, tolerance int) bool {
	if mask == nil {
		return false
	}
	x, y := int(p.X), int(p.Y)
	for dy := -tolerance; dy <= tolerance; dy++ {
		for dx := -tolerance; dx <= tolerance; dx++ {
			pt := image.Point{X: x + dx, Y: y + dy}
			if !pt.In(mask.Bounds()) {
				continue
			}
			if mask.GrayAt(pt.X, pt.Y) != (color.Gray{Y: MaskOutside}) {
				return true
			}
		}
	}
	return false
}
