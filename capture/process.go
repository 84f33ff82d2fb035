package capture

import (
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// toCapture copies frame into an upright, optionally mirrored capture. The
// frame's image is never modified.
func toCapture(frame model.Frame, s Settings) model.Capture {
	rotation := ((frame.Rotation+s.Rotation)%360 + 360) % 360

	var img image.Image = imaging.Clone(frame.Image)
	switch rotation {
	case 90:
		img = imaging.Rotate270(img)
	case 180:
		img = imaging.Rotate180(img)
	case 270:
		img = imaging.Rotate90(img)
	}
	if s.Mirror {
		img = imaging.FlipH(img)
	}

	return model.Capture{
		ID:        uuid.NewString(),
		FrameID:   frame.ID,
		Image:     img,
		Rotation:  rotation,
		Mirrored:  s.Mirror,
		Timestamp: time.Now(),
	}
}
