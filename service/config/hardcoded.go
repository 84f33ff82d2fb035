package config

import (
	"time"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

type settingsService struct {
	s Settings
}

// NewHardCoded returns a service holding only the built-in defaults.
func NewHardCoded() IService {
	return &settingsService{s: Defaults()}
}

// NewFromSettings fills the zero fields of s with defaults.
func NewFromSettings(s Settings) IService {
	return &settingsService{s: withDefaults(s)}
}

func Defaults() Settings {
	return Settings{
		ModeMaxShutdownTime:   5,
		PersistedFolder:       "./persisted",
		BundledFolder:         "./assets/models",
		CaptureResolution:     model.CaptureResolution,
		CaptureStrategy:       "buffered",
		CaptureCount:          2,
		CaptureBufferSize:     2,
		CaptureRetries:        10,
		CaptureRetryBackoffMs: 100,
		CaptureDelayMs:        50,
		WorkerPoolSize:        4,
		SegmentationModelName: "segmentation",
		PoseTolerance:         4,
		LogLevel:              "info",
		ReportStore:           "files",
		ReportFolder:          "./reports",
		ReportDSN:             "reports.db",
	}
}

func withDefaults(s Settings) Settings {
	d := Defaults()
	if s.ModeMaxShutdownTime <= 0 {
		s.ModeMaxShutdownTime = d.ModeMaxShutdownTime
	}
	if s.PersistedFolder == "" {
		s.PersistedFolder = d.PersistedFolder
	}
	if s.BundledFolder == "" {
		s.BundledFolder = d.BundledFolder
	}
	if !s.CaptureResolution.Valid() {
		s.CaptureResolution = d.CaptureResolution
	}
	if s.CaptureStrategy == "" {
		s.CaptureStrategy = d.CaptureStrategy
	}
	if s.CaptureCount <= 0 {
		s.CaptureCount = d.CaptureCount
	}
	if s.CaptureBufferSize <= 0 {
		s.CaptureBufferSize = d.CaptureBufferSize
	}
	if s.CaptureRetries <= 0 {
		s.CaptureRetries = d.CaptureRetries
	}
	if s.CaptureRetryBackoffMs <= 0 {
		s.CaptureRetryBackoffMs = d.CaptureRetryBackoffMs
	}
	if s.CaptureDelayMs < 0 {
		s.CaptureDelayMs = d.CaptureDelayMs
	}
	if s.WorkerPoolSize <= 0 {
		s.WorkerPoolSize = d.WorkerPoolSize
	}
	if s.SegmentationModelName == "" {
		s.SegmentationModelName = d.SegmentationModelName
	}
	if s.PoseTolerance < 0 {
		s.PoseTolerance = d.PoseTolerance
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	if s.ReportStore == "" {
		s.ReportStore = d.ReportStore
	}
	if s.ReportFolder == "" {
		s.ReportFolder = d.ReportFolder
	}
	if s.ReportDSN == "" {
		s.ReportDSN = d.ReportDSN
	}
	return s
}

func (svc *settingsService) GetModeMaxShutdownTime() int { return svc.s.ModeMaxShutdownTime }
func (svc *settingsService) GetPersistedFolder() string  { return svc.s.PersistedFolder }
func (svc *settingsService) GetBundledFolder() string    { return svc.s.BundledFolder }
func (svc *settingsService) GetDecryptionKey() string    { return svc.s.DecryptionKey }

func (svc *settingsService) GetCaptureResolution() model.Resolution {
	return svc.s.CaptureResolution
}

func (svc *settingsService) GetCaptureStrategy() string { return svc.s.CaptureStrategy }
func (svc *settingsService) GetCaptureCount() int       { return svc.s.CaptureCount }
func (svc *settingsService) GetCaptureBufferSize() int  { return svc.s.CaptureBufferSize }
func (svc *settingsService) GetCaptureRetries() int     { return svc.s.CaptureRetries }

func (svc *settingsService) GetCaptureRetryBackoff() time.Duration {
	return time.Duration(svc.s.CaptureRetryBackoffMs) * time.Millisecond
}

func (svc *settingsService) GetCaptureDelay() time.Duration {
	return time.Duration(svc.s.CaptureDelayMs) * time.Millisecond
}

func (svc *settingsService) GetSnapshotFolder() string        { return svc.s.SnapshotFolder }
func (svc *settingsService) GetWorkerPoolSize() int           { return svc.s.WorkerPoolSize }
func (svc *settingsService) GetSegmentationModelName() string { return svc.s.SegmentationModelName }
func (svc *settingsService) GetPoseTolerance() int            { return svc.s.PoseTolerance }
func (svc *settingsService) GetLogLevel() string              { return svc.s.LogLevel }
func (svc *settingsService) GetLogFile() string               { return svc.s.LogFile }
func (svc *settingsService) GetReportStore() string           { return svc.s.ReportStore }
func (svc *settingsService) GetReportFolder() string          { return svc.s.ReportFolder }
func (svc *settingsService) GetReportDSN() string             { return svc.s.ReportDSN }
