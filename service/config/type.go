package config

import (
	"time"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

type IService interface {
	GetModeMaxShutdownTime() int
	GetPersistedFolder() string
	GetBundledFolder() string
	GetDecryptionKey() string
	GetCaptureResolution() model.Resolution
	GetCaptureStrategy() string
	GetCaptureCount() int
	GetCaptureBufferSize() int
	GetCaptureRetries() int
	GetCaptureRetryBackoff() time.Duration
	GetCaptureDelay() time.Duration
	GetSnapshotFolder() string
	GetWorkerPoolSize() int
	GetSegmentationModelName() string
	GetPoseTolerance() int
	GetLogLevel() string
	GetLogFile() string
	GetReportStore() string
	GetReportFolder() string
	GetReportDSN() string
}

// Settings is the full configuration surface. Zero values are replaced by
// defaults when a service is built.
type Settings struct {
	ModeMaxShutdownTime   int              `yaml:"modeMaxShutdownTime"`
	PersistedFolder       string           `yaml:"persistedFolder"`
	BundledFolder         string           `yaml:"bundledFolder"`
	DecryptionKey         string           `yaml:"decryptionKey"`
	CaptureResolution     model.Resolution `yaml:"captureResolution"`
	CaptureStrategy       string           `yaml:"captureStrategy"`
	CaptureCount          int              `yaml:"captureCount"`
	CaptureBufferSize     int              `yaml:"captureBufferSize"`
	CaptureRetries        int              `yaml:"captureRetries"`
	CaptureRetryBackoffMs int              `yaml:"captureRetryBackoffMs"`
	CaptureDelayMs        int              `yaml:"captureDelayMs"`
	SnapshotFolder        string           `yaml:"snapshotFolder"`
	WorkerPoolSize        int              `yaml:"workerPoolSize"`
	SegmentationModelName string           `yaml:"segmentationModelName"`
	PoseTolerance         int              `yaml:"poseTolerance"`
	LogLevel              string           `yaml:"logLevel"`
	LogFile               string           `yaml:"logFile"`
	ReportStore           string           `yaml:"reportStore"`
	ReportFolder          string           `yaml:"reportFolder"`
	ReportDSN             string           `yaml:"reportDsn"`
}
