package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/config"
)

func newFilesForTest(t *testing.T) (IService, string, string) {
	t.Helper()
	root := t.TempDir()
	persisted := filepath.Join(root, "persisted")
	bundled := filepath.Join(root, "bundled")
	require.NoError(t, os.MkdirAll(bundled, 0755))

	cfg := config.NewFromSettings(config.Settings{
		PersistedFolder: persisted,
		BundledFolder:   bundled,
	})
	return NewFiles(cfg), persisted, bundled
}

func TestFilesPersistedRoundTrip(t *testing.T) {
	svc, persisted, _ := newFilesForTest(t)

	_, found, err := svc.ReadPersisted("model.tflite")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, svc.WritePersisted("model.tflite", []byte{1, 2, 3}))
	data, found, err := svc.ReadPersisted("model.tflite")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, filepath.Join(persisted, "model.tflite"), svc.PersistedPath("model.tflite"))
}

func TestFilesBundled(t *testing.T) {
	svc, _, bundled := newFilesForTest(t)
	require.NoError(t, os.WriteFile(filepath.Join(bundled, "svr.cereal"), []byte("x"), 0644))

	data, found, err := svc.ReadBundled("svr.cereal")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("x"), data)
}

func TestFilesRejectsPathNames(t *testing.T) {
	svc, _, _ := newFilesForTest(t)

	for _, name := range []string{"", "..", "../escape", "a/b"} {
		_, _, err := svc.ReadPersisted(name)
		assert.Error(t, err, name)
		assert.Error(t, svc.WritePersisted(name, nil), name)
	}
}
