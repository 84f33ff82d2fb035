package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

func TestContourMaskMatchesResolution(t *testing.T) {
	g := NewGenerator(nil)
	res := model.Resolution{Width: 180, Height: 320}

	poly, err := g.GenerateIdealContour(model.SexMale, 180, 80, res, 0, model.ProfileFront)
	require.NoError(t, err)

	mask, err := g.GenerateContourMask(poly, res)
	require.NoError(t, err)
	assert.Equal(t, res, model.ResolutionOf(mask))

	b := poly.Bounds()
	center := model.Point{X: b.Center().X, Y: b.MinY + 0.4*b.Height()}
	assert.Equal(t, uint8(MaskInside), mask.GrayAt(int(center.X), int(center.Y)).Y)
	assert.Equal(t, uint8(MaskOutside), mask.GrayAt(0, 0).Y)

	for _, v := range mask.Pix {
		require.True(t, v == MaskInside || v == MaskOutside)
	}
}

func TestContourMaskRejectsBadInput(t *testing.T) {
	g := NewGenerator(nil)

	_, err := g.GenerateContourMask(model.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}, model.CaptureResolution)
	assert.True(t, model.IsCode(err, model.CodeContourInvalidPolygon))

	_, err = g.GenerateContourMask(model.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, model.Resolution{Width: -1, Height: 5})
	assert.True(t, model.IsCode(err, model.CodeContourInvalidResolution))
}

func TestInMaskTolerance(t *testing.T) {
	g := NewGenerator(nil)
	square := model.Polygon{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 20}, {X: 10, Y: 20}}
	mask, err := g.GenerateContourMask(square, model.Resolution{Width: 40, Height: 40})
	require.NoError(t, err)

	assert.True(t, InMask(mask, model.Point{X: 15, Y: 15}, 0))
	assert.False(t, InMask(mask, model.Point{X: 24, Y: 15}, 0))
	assert.True(t, InMask(mask, model.Point{X: 24, Y: 15}, 5))
	assert.False(t, InMask(mask, model.Point{X: -50, Y: -50}, 2))
	assert.False(t, InMask(nil, model.Point{X: 15, Y: 15}, 2))
}
