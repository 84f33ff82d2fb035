package inference

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// FakeService is a deterministic engine: segmentation keeps the pixels under
// the mask, classification derives measurements from height and weight and
// inversion emits a tiny OBJ scaled to the requested height.
type FakeService struct {
	segmentationModel string
	mlModels          []string
	svrModels         []string
	cvModels          []string

	// NoOutput makes every call return the engine's empty result.
	NoOutput bool

	Calls atomic.Int32
}

type FakeOption func(*FakeService)

func WithSegmentationModel(name string) FakeOption {
	return func(svc *FakeService) {
		if name != "" {
			svc.segmentationModel = name
		}
	}
}

func WithModelNames(ml, svr, cv []string) FakeOption {
	return func(svc *FakeService) {
		svc.mlModels = ml
		svc.svrModels = svr
		svc.cvModels = cv
	}
}

func NewFake(opts ...FakeOption) *FakeService {
	svc := &FakeService{
		segmentationModel: "segmentation",
		mlModels:          []string{"cnn_front", "cnn_side"},
		svrModels:         []string{"svr_chest", "svr_waist", "svr_hip", "svr_inseam", "svr_fitness"},
		cvModels:          []string{"cv_shape", "cv_pose"},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (svc *FakeService) Segment(in SegmentInput, modelBytes []byte) (*Image, error) {
	svc.Calls.Add(1)
	if svc.NoOutput || len(modelBytes) == 0 {
		return nil, nil
	}
	if in.Image.Empty() || in.Mask.Empty() {
		return nil, fmt.Errorf("segment: empty input")
	}

	out := Image{
		Width:  in.Image.Width,
		Height: in.Image.Height,
		Pix:    make([]byte, len(in.Image.Pix)),
	}
	for i := 0; i+3 < len(out.Pix) && i+3 < len(in.Mask.Pix); i += 4 {
		if in.Mask.Pix[i] == 0 {
			continue
		}
		copy(out.Pix[i:i+4], in.Image.Pix[i:i+4])
	}
	return &out, nil
}

func (svc *FakeService) SegmentBatch(in []SegmentInput, modelBytes []byte) ([]Image, error) {
	out := make([]Image, 0, len(in))
	for _, item := range in {
		img, err := svc.Segment(item, modelBytes)
		if err != nil {
			return nil, err
		}
		if img == nil {
			return nil, nil
		}
		out = append(out, *img)
	}
	return out, nil
}

func (svc *FakeService) Classify(in ClassifyInput) (map[string]float64, error) {
	svc.Calls.Add(1)
	if svc.NoOutput {
		return nil, nil
	}

	bmi := in.WeightKg / ((in.HeightCm / 100) * (in.HeightCm / 100))
	scale := 1.0
	if in.Sex == model.SexFemale {
		scale = 0.95
	}
	return map[string]float64{
		"chest":   in.HeightCm * 0.52 * scale,
		"waist":   in.HeightCm * 0.45 * scale * bmi / 22,
		"hip":     in.HeightCm * 0.55 * scale,
		"inseam":  in.HeightCm * 0.45,
		"fitness": bmi,
		"groups":  float64(len(in.FrontImages)),
	}, nil
}

func (svc *FakeService) Invert(in InvertInput) (string, error) {
	svc.Calls.Add(1)
	if svc.NoOutput {
		return "", nil
	}

	h := in.HeightCm / 100
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %.1fcm %.1fkg\n", in.Sex, in.HeightCm, in.WeightKg)
	fmt.Fprintf(&b, "v 0 0 0\nv 0.2 0 0\nv 0 %.4f 0\n", h)
	b.WriteString("f 1 2 3\n")
	return b.String(), nil
}

func (svc *FakeService) ListMLModelNames() []string  { return svc.mlModels }
func (svc *FakeService) ListSVRModelNames() []string { return svc.svrModels }
func (svc *FakeService) ListCVModelNames() []string  { return svc.cvModels }

func (svc *FakeService) SegmentationModelName() string {
	return svc.segmentationModel
}
