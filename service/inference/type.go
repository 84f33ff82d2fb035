package inference

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// Image is the pixel layout accepted by the native engine: tightly packed
// 8-bit RGBA rows, Width*4 bytes each.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// FromImage converts img to the engine layout.
func FromImage(img image.Image) Image {
	if img == nil {
		return Image{}
	}
	nrgba := imaging.Clone(img)
	return Image{
		Width:  nrgba.Rect.Dx(),
		Height: nrgba.Rect.Dy(),
		Pix:    nrgba.Pix,
	}
}

// ToImage wraps the engine pixels without copying them.
func (i Image) ToImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    i.Pix,
		Stride: i.Width * 4,
		Rect:   image.Rect(0, 0, i.Width, i.Height),
	}
}

func (i Image) Empty() bool {
	return i.Width <= 0 || i.Height <= 0 || len(i.Pix) < i.Width*i.Height*4
}

type SegmentInput struct {
	Image   Image
	Mask    Image
	Profile model.Profile
	Joints  model.Joints
}

type ClassifyInput struct {
	HeightCm    float64
	WeightKg    float64
	Sex         model.Sex
	FrontImages []Image
	SideImages  []Image
	FrontJoints []model.Joints
	SideJoints  []model.Joints
	MLModels    map[string][]byte
	SVRModels   map[string][]byte
	UseAverage  bool
}

type InvertInput struct {
	Sex      model.Sex
	HeightCm float64
	WeightKg float64
	Chest    float64
	Waist    float64
	Hip      float64
	Inseam   float64
	Fitness  float64
	CVMale   map[string][]byte
	CVFemale map[string][]byte
}

// IService is the call contract of the native compute engine. A nil image,
// nil map or empty mesh with a nil error means the engine ran but produced
// no output. Implementations may panic; callers are expected to recover.
type IService interface {
	Segment(in SegmentInput, modelBytes []byte) (*Image, error)
	SegmentBatch(in []SegmentInput, modelBytes []byte) ([]Image, error)
	Classify(in ClassifyInput) (map[string]float64, error)
	Invert(in InvertInput) (string, error)

	ListMLModelNames() []string
	ListSVRModelNames() []string
	ListCVModelNames() []string
	SegmentationModelName() string
}
