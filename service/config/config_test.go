package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

func TestHardCodedDefaults(t *testing.T) {
	svc := NewHardCoded()

	assert.Equal(t, model.CaptureResolution, svc.GetCaptureResolution())
	assert.Equal(t, 10, svc.GetCaptureRetries())
	assert.Equal(t, 2, svc.GetCaptureBufferSize())
	assert.Equal(t, "buffered", svc.GetCaptureStrategy())
	assert.Equal(t, 100*time.Millisecond, svc.GetCaptureRetryBackoff())
	assert.Empty(t, svc.GetDecryptionKey())
}

func TestNewYAMLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.yaml")
	content := `
persistedFolder: /data/models
decryptionKey: secret
captureCount: 4
captureResolution:
  width: 360
  height: 640
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	svc, err := NewYAML(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/models", svc.GetPersistedFolder())
	assert.Equal(t, "secret", svc.GetDecryptionKey())
	assert.Equal(t, 4, svc.GetCaptureCount())
	assert.Equal(t, model.Resolution{Width: 360, Height: 640}, svc.GetCaptureResolution())
	// untouched keys keep their defaults
	assert.Equal(t, 10, svc.GetCaptureRetries())
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.yaml")
	require.NoError(t, os.WriteFile(path, []byte("captureStrategy: single\n"), 0644))

	t.Setenv("BODY_CAPTURE_STRATEGY", "buffered")
	t.Setenv("BODY_WORKER_POOL_SIZE", "7")

	svc, err := NewYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "buffered", svc.GetCaptureStrategy())
	assert.Equal(t, 7, svc.GetWorkerPoolSize())
}

func TestNewYAMLMissingFile(t *testing.T) {
	_, err := NewYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
