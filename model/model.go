package model

import (
	"fmt"
	"image"
	"runtime/debug"
	"strings"
	"time"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func (e CustomError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s: %v", e.Processor, e.Message, e.Inner)
	}
	return fmt.Sprintf("%s: %s", e.Processor, e.Message)
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

// Resolution is an image size in pixels.
type Resolution struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// CaptureResolution is the fixed size every capture and mask must have.
var CaptureResolution = Resolution{Width: 720, Height: 1280}

func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ResolutionOf returns the size of img's bounds.
func ResolutionOf(img image.Image) Resolution {
	if img == nil {
		return Resolution{}
	}
	b := img.Bounds()
	return Resolution{Width: b.Dx(), Height: b.Dy()}
}

type Profile string

const (
	ProfileFront Profile = "front"
	ProfileSide  Profile = "side"
)

func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(s)) {
	case ProfileFront:
		return ProfileFront, nil
	case ProfileSide:
		return ProfileSide, nil
	}
	return "", fmt.Errorf("unknown profile %q", s)
}

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func ParseSex(s string) (Sex, error) {
	switch Sex(strings.ToLower(s)) {
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	}
	return "", fmt.Errorf("unknown sex %q", s)
}

// Frame is a raw camera frame as delivered by an analyzer callback.
type Frame struct {
	ID        string      `json:"id"`
	Image     image.Image `json:"-"`
	Rotation  int         `json:"rotation"`
	Timestamp time.Time   `json:"timestamp"`
}

// Capture is a processed image plus its metadata. A nil Joints means the
// capture carries no joints entry at all.
type Capture struct {
	ID        string      `json:"id"`
	FrameID   string      `json:"frameId"`
	Image     image.Image `json:"-"`
	Rotation  int         `json:"rotation"`
	Mirrored  bool        `json:"mirrored"`
	Joints    Joints      `json:"joints,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// WithJoints returns a copy of c carrying joints.
func (c Capture) WithJoints(joints Joints) Capture {
	c.Joints = joints.Clone()
	return c
}

type CaptureGrouping struct {
	Front Capture `json:"front"`
	Side  Capture `json:"side"`
}

// InspectionResult is the outcome of checking one body region against the contour.
type InspectionResult int

const (
	InContour InspectionResult = iota
	NotInContour
	NotDetected
	MultipleFacesDetected
)

func (r InspectionResult) String() string {
	switch r {
	case InContour:
		return "inContour"
	case NotInContour:
		return "notInContour"
	case NotDetected:
		return "notDetected"
	case MultipleFacesDetected:
		return "multipleFacesDetected"
	}
	return "unknown"
}

func (r InspectionResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ClassificationResult is the measurement map produced by the native engine.
type ClassificationResult map[string]float64

type MeshArtifact struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	HeightCm float64 `json:"heightCm"`
}

type CaptureStats struct {
	Name      string `json:"name"`
	Captures  int    `json:"captures"`
	Frames    int    `json:"frames"`
	Dropped   int    `json:"dropped"`
	Retries   int    `json:"retries"`
	Errors    int    `json:"errors"`
	Timestamp int64  `json:"timestamp"`
}
