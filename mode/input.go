package mode

import (
	"encoding/json"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/xerrors"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

func loadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("opening image %s: %w", path, err)
	}
	return img, nil
}

// loadMask reads an image and keeps its luminance.
func loadMask(path string) (*image.Gray, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	if gray, ok := img.(*image.Gray); ok {
		return gray, nil
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			gray.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return gray, nil
}

// loadJoints reads a JSON object of joint name to {"x":..,"y":..}.
func loadJoints(path string) (model.Joints, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("reading joints %s: %w", path, err)
	}
	var joints model.Joints
	if err := json.Unmarshal(b, &joints); err != nil {
		return nil, xerrors.Errorf("parsing joints %s: %w", path, err)
	}
	return joints, nil
}

func loadCapture(imagePath, jointsPath string) (model.Capture, error) {
	img, err := loadImage(imagePath)
	if err != nil {
		return model.Capture{}, err
	}
	joints, err := loadJoints(jointsPath)
	if err != nil {
		return model.Capture{}, err
	}
	return model.Capture{ID: imagePath, Image: img, Joints: joints}, nil
}

// loadGroupings pairs front and side images by index; joints files are
// optional and paired the same way.
func loadGroupings(opts Options) ([]model.CaptureGrouping, error) {
	if len(opts.Front) != len(opts.Side) {
		return nil, xerrors.Errorf("got %d front and %d side images", len(opts.Front), len(opts.Side))
	}

	at := func(paths []string, i int) string {
		if i < len(paths) {
			return paths[i]
		}
		return ""
	}

	groupings := make([]model.CaptureGrouping, 0, len(opts.Front))
	for i := range opts.Front {
		front, err := loadCapture(opts.Front[i], at(opts.FrontJoints, i))
		if err != nil {
			return nil, err
		}
		side, err := loadCapture(opts.Side[i], at(opts.SideJoints, i))
		if err != nil {
			return nil, err
		}
		groupings = append(groupings, model.CaptureGrouping{Front: front, Side: side})
	}
	return groupings, nil
}

func parseProfile(s string) (model.Profile, error) {
	if s == "" {
		return model.ProfileFront, nil
	}
	return model.ParseProfile(s)
}
