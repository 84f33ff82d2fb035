package pose

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/contour"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// fixture builds a mask covering [100,300]x[100,900] of a 400x1000 image,
// head zone around the top edge and a full joint set inside the mask.
func fixture(t *testing.T) (*image.Gray, model.OptimalZones, model.Joints) {
	t.Helper()
	res := model.Resolution{Width: 400, Height: 1000}
	g := contour.NewGenerator(nil)

	box := model.Polygon{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 900}, {X: 100, Y: 900}}
	mask, err := g.GenerateContourMask(box, res)
	require.NoError(t, err)

	joints := model.Joints{}
	for i, k := range model.RequiredJoints {
		joints[k] = model.Point{X: 150 + float64(i%3)*20, Y: 200 + float64(i)*40}
	}
	joints[model.JointHeadTop] = model.Point{X: 200, Y: 110}

	return mask, g.GenerateOptimalZones(box, res), joints
}

func TestInspectAllInContour(t *testing.T) {
	mask, zones, joints := fixture(t)

	results, err := NewInspector(0).Inspect(model.Capture{ID: "c1", Joints: joints}, mask, zones, model.ProfileFront, nil)
	require.NoError(t, err)

	for _, region := range Regions {
		assert.Equal(t, model.InContour, results[region], region)
	}
	assert.True(t, IsInContour(model.ProfileFront, map[model.Profile]map[Region]model.InspectionResult{model.ProfileFront: results}))
}

func TestInspectNotInContour(t *testing.T) {
	mask, zones, joints := fixture(t)
	joints[model.JointLeftHand] = model.Point{X: 20, Y: 500}

	results, err := NewInspector(2).Inspect(model.Capture{}, mask, zones, model.ProfileFront, []model.Joints{joints})
	require.NoError(t, err)
	assert.Equal(t, model.NotInContour, results[RegionLeftArm])
	assert.Equal(t, model.InContour, results[RegionRightArm])

	assert.False(t, IsInContour(model.ProfileFront, map[model.Profile]map[Region]model.InspectionResult{model.ProfileFront: results}))
}

func TestInspectToleranceAdmitsNearMiss(t *testing.T) {
	mask, zones, joints := fixture(t)
	joints[model.JointRightHand] = model.Point{X: 303, Y: 500}

	strict, err := NewInspector(0).Inspect(model.Capture{}, mask, zones, model.ProfileFront, []model.Joints{joints})
	require.NoError(t, err)
	assert.Equal(t, model.NotInContour, strict[RegionRightArm])

	lenient, err := NewInspector(5).Inspect(model.Capture{}, mask, zones, model.ProfileFront, []model.Joints{joints})
	require.NoError(t, err)
	assert.Equal(t, model.InContour, lenient[RegionRightArm])
}

func TestInspectFaceOutsideHeadZone(t *testing.T) {
	mask, zones, joints := fixture(t)
	// inside the mask but far below the head zone
	joints[model.JointHeadTop] = model.Point{X: 200, Y: 500}

	results, err := NewInspector(0).Inspect(model.Capture{}, mask, zones, model.ProfileSide, []model.Joints{joints})
	require.NoError(t, err)
	assert.Equal(t, model.NotInContour, results[RegionFace])
}

func TestInspectNotDetected(t *testing.T) {
	mask, zones, joints := fixture(t)
	delete(joints, model.JointRightKnee)

	results, err := NewInspector(0).Inspect(model.Capture{}, mask, zones, model.ProfileFront, []model.Joints{joints})
	require.NoError(t, err)
	assert.Equal(t, model.NotDetected, results[RegionRightLeg])
	assert.Equal(t, model.InContour, results[RegionLeftLeg])

	results, err = NewInspector(0).Inspect(model.Capture{}, mask, zones, model.ProfileFront, nil)
	require.NoError(t, err)
	for _, region := range Regions {
		assert.Equal(t, model.NotDetected, results[region])
	}
}

func TestInspectMultipleFaces(t *testing.T) {
	mask, zones, joints := fixture(t)
	bystander := model.Joints{model.JointNose: {X: 250, Y: 150}}

	results, err := NewInspector(0).Inspect(model.Capture{}, mask, zones, model.ProfileFront, []model.Joints{joints, bystander})
	require.NoError(t, err)
	assert.Equal(t, model.MultipleFacesDetected, results[RegionFace])
	assert.Equal(t, model.InContour, results[RegionLeftArm])
}

func TestInspectPicksMostCompleteCandidate(t *testing.T) {
	mask, zones, joints := fixture(t)
	partial := model.Joints{
		model.JointLeftShoulder: {X: 10, Y: 10},
	}

	results, err := NewInspector(0).Inspect(model.Capture{}, mask, zones, model.ProfileFront, []model.Joints{partial, joints})
	require.NoError(t, err)
	assert.Equal(t, model.InContour, results[RegionLeftArm])
}

func TestInspectRejectsBadMask(t *testing.T) {
	_, err := NewInspector(0).Inspect(model.Capture{}, nil, nil, model.ProfileFront, nil)
	assert.True(t, model.IsCode(err, model.CodePoseInvalidMask))

	capture := model.Capture{Image: image.NewNRGBA(image.Rect(0, 0, 10, 10))}
	_, err = NewInspector(0).Inspect(capture, image.NewGray(image.Rect(0, 0, 20, 20)), nil, model.ProfileFront, nil)
	assert.True(t, model.IsCode(err, model.CodePoseInvalidMask))
}

func TestIsInContourMissingProfile(t *testing.T) {
	results := map[model.Profile]map[Region]model.InspectionResult{
		model.ProfileFront: {
			RegionFace:     model.InContour,
			RegionLeftArm:  model.InContour,
			RegionRightArm: model.InContour,
			RegionLeftLeg:  model.InContour,
			RegionRightLeg: model.InContour,
		},
	}
	assert.True(t, IsInContour(model.ProfileFront, results))
	assert.False(t, IsInContour(model.ProfileSide, results))

	delete(results[model.ProfileFront], RegionRightLeg)
	assert.False(t, IsInContour(model.ProfileFront, results))
}
