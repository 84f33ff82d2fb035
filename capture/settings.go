package capture

import (
	"strconv"
	"time"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// Configuration keys accepted by SetConfig.
const (
	KeyCaptureCount = "captureCount"
	KeyRotation     = "rotation"
	KeyMirror       = "mirror"
	KeyDelayMs      = "delayMs"
)

const maxCaptureCount = 10

// Settings shape every capture of a burst. Rotation is clockwise degrees
// applied on top of the frame's own rotation.
type Settings struct {
	CaptureCount int
	Rotation     int
	Mirror       bool
	Delay        time.Duration
}

// apply validates every entry of cfg before touching s, so a rejected map
// leaves the settings unchanged.
func (s Settings) apply(cfg map[string]string) (Settings, error) {
	const op = "capture.setConfig"

	if len(cfg) == 0 {
		return s, model.NewError(model.CodeCaptureConfigEmpty, op, "empty capture configuration")
	}

	next := s
	for key, value := range cfg {
		switch key {
		case KeyCaptureCount:
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 || n > maxCaptureCount {
				return s, model.NewError(model.CodeCaptureConfigInvalid, op, "%s must be in [1,%d], got %q", key, maxCaptureCount, value)
			}
			next.CaptureCount = n
		case KeyRotation:
			n, err := strconv.Atoi(value)
			if err != nil || !validRotation(n) {
				return s, model.NewError(model.CodeCaptureConfigInvalid, op, "%s must be 0, 90, 180 or 270, got %q", key, value)
			}
			next.Rotation = n
		case KeyMirror:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return s, model.NewError(model.CodeCaptureConfigInvalid, op, "%s must be a boolean, got %q", key, value)
			}
			next.Mirror = b
		case KeyDelayMs:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return s, model.NewError(model.CodeCaptureConfigInvalid, op, "%s must be >= 0, got %q", key, value)
			}
			next.Delay = time.Duration(n) * time.Millisecond
		default:
			return s, model.NewError(model.CodeCaptureConfigInvalid, op, "unknown capture configuration key %q", key)
		}
	}
	return next, nil
}

func validRotation(deg int) bool {
	switch deg {
	case 0, 90, 180, 270:
		return true
	}
	return false
}
