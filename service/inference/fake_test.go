package inference

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFromImageRoundTrip(t *testing.T) {
	src := solid(4, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img := FromImage(src)

	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Len(t, img.Pix, 4*3*4)
	assert.False(t, img.Empty())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.ToImage().NRGBAAt(2, 1))
}

func TestFakeSegmentKeepsMaskedPixels(t *testing.T) {
	svc := NewFake()
	mask := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	mask.Set(1, 0, color.White)

	out, err := svc.Segment(SegmentInput{
		Image: FromImage(solid(2, 1, color.NRGBA{R: 200, A: 255})),
		Mask:  FromImage(mask),
	}, []byte("model"))
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, uint8(0), out.ToImage().NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(200), out.ToImage().NRGBAAt(1, 0).R)
}

func TestFakeNoOutput(t *testing.T) {
	svc := NewFake()
	svc.NoOutput = true

	out, err := svc.Classify(ClassifyInput{HeightCm: 180, WeightKg: 80})
	assert.NoError(t, err)
	assert.Nil(t, out)

	mesh, err := svc.Invert(InvertInput{HeightCm: 180, WeightKg: 80})
	assert.NoError(t, err)
	assert.Empty(t, mesh)
	assert.Equal(t, int32(2), svc.Calls.Load())
}

func TestFakeClassifyAndInvert(t *testing.T) {
	svc := NewFake(WithSegmentationModel("seg_v2"))
	assert.Equal(t, "seg_v2", svc.SegmentationModelName())

	res, err := svc.Classify(ClassifyInput{HeightCm: 180, WeightKg: 80, Sex: model.SexMale})
	require.NoError(t, err)
	assert.InDelta(t, 93.6, res["chest"], 0.001)

	mesh, err := svc.Invert(InvertInput{Sex: model.SexFemale, HeightCm: 165, WeightKg: 60})
	require.NoError(t, err)
	assert.Contains(t, mesh, "v 0 1.6500 0")
}
