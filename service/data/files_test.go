package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/config"
)

func newFilesForTest(t *testing.T) (IService, string) {
	dir := filepath.Join(t.TempDir(), "reports")
	return NewFilesDB(config.NewFromSettings(config.Settings{ReportFolder: dir})), dir
}

func TestFilesRunReports(t *testing.T) {
	svc, _ := newFilesForTest(t)

	reports, err := svc.RetrieveRunReports("", 0)
	require.NoError(t, err)
	assert.Empty(t, reports)

	require.NoError(t, svc.NewRunReport(model.RunReport{ID: "1", Operation: model.OpClassify, Code: model.CodeOK, Timestamp: 10}))
	require.NoError(t, svc.NewRunReport(model.RunReport{ID: "2", Operation: model.OpInvert, Code: model.CodeInversionFailed, Timestamp: 20}))
	require.NoError(t, svc.NewRunReport(model.RunReport{ID: "3", Operation: model.OpClassify, Code: model.CodeClassificationNoCaptures, Timestamp: 30}))

	reports, err = svc.RetrieveRunReports(model.OpClassify, 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "3", reports[0].ID)
	assert.Equal(t, 2401, reports[0].LegacyCode)

	reports, err = svc.RetrieveRunReports("", 1)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "3", reports[0].ID)
}

func TestFilesErrorsAndStats(t *testing.T) {
	svc, dir := newFilesForTest(t)

	require.NoError(t, svc.NewError(model.NewError(model.CodeResourceNotFound, "resource.resolve", "missing")))
	require.NoError(t, svc.NewError(model.GenError("capture", errors.New("boom"), nil, "burst failed")))
	require.NoError(t, svc.NewCaptureStats(model.CaptureStats{Name: "buffered", Captures: 2}))

	data, err := os.ReadFile(filepath.Join(dir, "errors.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"legacyCode": 2000`)
	assert.Contains(t, string(data), `"processor": "capture"`)

	_, err = os.Stat(filepath.Join(dir, "capture-stats.json"))
	assert.NoError(t, err)
}
