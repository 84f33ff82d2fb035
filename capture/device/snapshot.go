package device

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

// SnapshotWriter stores capture images as JPEG files named after the capture.
type SnapshotWriter struct {
	Folder string
}

func (w SnapshotWriter) Write(captures []model.Capture) ([]string, error) {
	if err := os.MkdirAll(w.Folder, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(captures))
	for _, c := range captures {
		path := filepath.Join(w.Folder, fmt.Sprintf("%s.jpg", c.ID))
		if err := writeImage(path, c); err != nil {
			return paths, err
		}
		paths = append(paths, path)

		lgr.Logger.Debug("snapshot written",
			slog.String("capture", c.ID),
			slog.String("path", path),
		)
	}
	return paths, nil
}

func writeImage(path string, c model.Capture) error {
	rgba, err := gocv.ImageToMatRGBA(c.Image)
	if err != nil {
		return err
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	if ok := gocv.IMWrite(path, bgr); !ok {
		return fmt.Errorf("failed to write snapshot %s", path)
	}
	return nil
}
