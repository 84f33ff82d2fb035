package pipeline

import (
	"image"

	"go.opentelemetry.io/otel/trace"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/config"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/data"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/inference"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/resource"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/storage"
)

// ServicesFactory carries the collaborators a pipeline runs against.
// ModelCache and Tracer are optional; DataSvc may be nil to skip run reports.
type ServicesFactory struct {
	CfgSvc       config.IService
	StorageSvc   storage.IService
	ResourceSvc  resource.IService
	ModelCache   *resource.Cache
	InferenceSvc inference.IService
	DataSvc      data.IService
	Tracer       trace.Tracer
}

type ClassifyRequest struct {
	Sex        model.Sex               `json:"sex"`
	HeightCm   float64                 `json:"heightCm"`
	WeightKg   float64                 `json:"weightKg"`
	Captures   []model.CaptureGrouping `json:"captures"`
	UseAverage bool                    `json:"useAverage"`
}

type SegmentRequest struct {
	Capture model.Capture `json:"capture"`
	Mask    image.Image   `json:"-"`
	Profile model.Profile `json:"profile"`
}

// InvertRequest carries the measurements to reconstruct. Chest, Waist, Hip,
// Inseam and Fitness may all be zero.
type InvertRequest struct {
	Name     string    `json:"name"`
	Sex      model.Sex `json:"sex"`
	HeightCm float64   `json:"heightCm"`
	WeightKg float64   `json:"weightKg"`
	Chest    float64   `json:"chest"`
	Waist    float64   `json:"waist"`
	Hip      float64   `json:"hip"`
	Inseam   float64   `json:"inseam"`
	Fitness  float64   `json:"fitness"`
}

// Outcome is the single value delivered on an async result channel.
type Outcome[T any] struct {
	Value T
	Err   error
}
