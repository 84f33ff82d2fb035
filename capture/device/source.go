package device

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/capture"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

// Source reads frames from a camera device or stream URL through OpenCV.
type Source struct {
	// Device is a device index ("0") or a stream URL.
	Device   string
	Rotation int
	Limit    int
}

func (src Source) Run(ctx context.Context, sink func(model.Frame)) error {
	webcam, err := gocv.OpenVideoCapture(src.Device)
	if err != nil {
		return model.GenError("capture_device_source",
			err,
			map[string]interface{}{"device": src.Device},
			"error opening capture device")
	}
	defer webcam.Close()

	frames, errors := 0, 0
	defer func() {
		lgr.Logger.Info("device source stopped",
			slog.String("device", src.Device),
			slog.Int("frames", frames),
			slog.Int("errors", errors),
		)
	}()

	mat := gocv.NewMat()
	defer mat.Close()

	backoff := capture.NewReadBackoff()

	for src.Limit <= 0 || frames < src.Limit {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if ok := webcam.Read(&mat); !ok || mat.Empty() {
			errors++
			if err := backoff.Failed(ctx); err != nil {
				return model.GenError("capture_device_source",
					err,
					map[string]interface{}{"device": src.Device, "frames": frames},
					"device stopped delivering frames")
			}
			continue
		}

		img, err := mat.ToImage()
		if err != nil {
			errors++
			if err := backoff.Failed(ctx); err != nil {
				return model.GenError("capture_device_source",
					err,
					map[string]interface{}{"device": src.Device, "frames": frames},
					"device frames could not be converted")
			}
			continue
		}
		backoff.Succeeded()

		frames++
		sink(model.Frame{
			ID:        uuid.NewString(),
			Image:     img,
			Rotation:  src.Rotation,
			Timestamp: time.Now(),
		})
	}
	return nil
}
