package config

import (
	"os"
	"strconv"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

const envPrefix = "BODY_"

// NewEnv reads BODY_* variables on top of the defaults. Call godotenv.Load
// first if a .env file should be honoured.
func NewEnv() IService {
	s := Defaults()
	applyEnv(&s)
	return &settingsService{s: withDefaults(s)}
}

// NewYAML reads a YAML settings file, then lets BODY_* variables override it.
func NewYAML(path string) (IService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("reading config %s: %w", path, err)
	}

	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, xerrors.Errorf("parsing config %s: %w", path, err)
	}
	applyEnv(&s)
	return &settingsService{s: withDefaults(s)}, nil
}

func applyEnv(s *Settings) {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	num("MODE_MAX_SHUTDOWN_TIME", &s.ModeMaxShutdownTime)
	str("PERSISTED_FOLDER", &s.PersistedFolder)
	str("BUNDLED_FOLDER", &s.BundledFolder)
	str("DECRYPTION_KEY", &s.DecryptionKey)
	num("CAPTURE_WIDTH", &s.CaptureResolution.Width)
	num("CAPTURE_HEIGHT", &s.CaptureResolution.Height)
	str("CAPTURE_STRATEGY", &s.CaptureStrategy)
	num("CAPTURE_COUNT", &s.CaptureCount)
	num("CAPTURE_BUFFER_SIZE", &s.CaptureBufferSize)
	num("CAPTURE_RETRIES", &s.CaptureRetries)
	num("CAPTURE_RETRY_BACKOFF_MS", &s.CaptureRetryBackoffMs)
	num("CAPTURE_DELAY_MS", &s.CaptureDelayMs)
	str("SNAPSHOT_FOLDER", &s.SnapshotFolder)
	num("WORKER_POOL_SIZE", &s.WorkerPoolSize)
	str("SEGMENTATION_MODEL", &s.SegmentationModelName)
	num("POSE_TOLERANCE", &s.PoseTolerance)
	str("LOG_LEVEL", &s.LogLevel)
	str("LOG_FILE", &s.LogFile)
	str("REPORT_STORE", &s.ReportStore)
	str("REPORT_FOLDER", &s.ReportFolder)
	str("REPORT_DSN", &s.ReportDSN)
}
