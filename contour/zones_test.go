package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

func TestOptimalZonesStayInsideImage(t *testing.T) {
	g := NewGenerator(nil)

	for k := 60; k <= 120; k += 5 {
		res := model.Resolution{Width: 9 * k, Height: 16 * k}
		for _, sex := range sexes {
			for _, profile := range profiles {
				poly, err := g.GenerateIdealContour(sex, 175, 75, res, 0, profile)
				require.NoError(t, err)

				zones := g.GenerateOptimalZones(poly, res)
				require.Len(t, zones, 4)
				for key, r := range zones {
					assert.GreaterOrEqual(t, r.MinX, 0.0, key)
					assert.GreaterOrEqual(t, r.MinY, 0.0, key)
					assert.LessOrEqual(t, r.MaxX, float64(res.Width), key)
					assert.LessOrEqual(t, r.MaxY, float64(res.Height), key)
				}

				assert.Less(t, zones[model.ZoneHead].Center().Y, zones[model.ZoneAnkles].Center().Y, "%s %s", res, profile)
				assert.Less(t, zones[model.ZoneHeadTarget].Center().Y, zones[model.ZoneAnklesTarget].Center().Y)
			}
		}
	}
}

func TestOptimalZonesExtremeBuild(t *testing.T) {
	g := NewGenerator(nil)
	res := model.Resolution{Width: 540, Height: 960}

	poly, err := g.GenerateIdealContour(model.SexFemale, MaxHeightCm, MaxWeightKg, res, 0.8, model.ProfileSide)
	require.NoError(t, err)

	zones := g.GenerateOptimalZones(poly, res)
	assert.Less(t, zones[model.ZoneHead].Center().Y, zones[model.ZoneAnkles].Center().Y)
	assert.LessOrEqual(t, zones[model.ZoneAnkles].MaxY, 960.0)
}

func TestOptimalZonesEmptyPolygon(t *testing.T) {
	assert.Empty(t, NewGenerator(nil).GenerateOptimalZones(nil, model.CaptureResolution))
}

func TestIsUserInOptimalZone(t *testing.T) {
	rect := model.Rect{MinX: 100, MinY: 100, MaxX: 200, MaxY: 200}

	for _, key := range []string{model.ZoneHead, model.ZoneHeadTarget, model.ZoneAnkles, model.ZoneAnklesTarget} {
		assert.False(t, IsUserInOptimalZone(key, rect, model.Joints{}), key)
		assert.False(t, IsUserInOptimalZone(key, rect, nil), key)
	}

	head := model.Joints{model.JointHeadTop: {X: 150, Y: 150}}
	assert.True(t, IsUserInOptimalZone(model.ZoneHead, rect, head))
	assert.False(t, IsUserInOptimalZone(model.ZoneAnkles, rect, head))

	ankles := model.Joints{
		model.JointLeftAnkle:  {X: 120, Y: 180},
		model.JointRightAnkle: {X: 180, Y: 180},
	}
	assert.True(t, IsUserInOptimalZone(model.ZoneAnklesTarget, rect, ankles))

	ankles[model.JointRightAnkle] = model.Point{X: 250, Y: 180}
	assert.False(t, IsUserInOptimalZone(model.ZoneAnkles, rect, ankles))

	assert.False(t, IsUserInOptimalZone("zoneElbow", rect, head))
}
