package data

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

func newSQLiteForTest(t *testing.T) IService {
	t.Helper()
	db, err := OpenSQLite(fmt.Sprintf("file:test-%d?mode=memory&cache=shared", time.Now().UnixNano()))
	require.NoError(t, err)

	svc, err := NewSQLite(db)
	require.NoError(t, err)
	return svc
}

func TestSQLiteRunReports(t *testing.T) {
	svc := newSQLiteForTest(t)

	require.NoError(t, svc.NewRunReport(model.RunReport{
		ID:           "a",
		Operation:    model.OpClassify,
		Code:         model.CodeOK,
		Timestamp:    100,
		Measurements: map[string]float64{"chest": 98.5},
	}))
	require.NoError(t, svc.NewRunReport(model.RunReport{
		ID:        "b",
		Operation: model.OpSegment,
		Code:      model.CodeSegmentationModelMissing,
		Kind:      model.KindResourceUnavailable,
		Timestamp: 200,
	}))

	reports, err := svc.RetrieveRunReports("", 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "b", reports[0].ID)
	assert.Equal(t, 2504, reports[0].LegacyCode)
	assert.Equal(t, model.CodeSegmentationModelMissing, reports[0].Code)
	assert.Nil(t, reports[0].Measurements)

	assert.Equal(t, model.CodeOK, reports[1].Code)
	assert.Equal(t, 98.5, reports[1].Measurements["chest"])

	reports, err = svc.RetrieveRunReports(model.OpClassify, 5)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "a", reports[0].ID)
}

func TestSQLiteErrorsAndStats(t *testing.T) {
	svc := newSQLiteForTest(t)

	assert.NoError(t, svc.NewError(model.NewError(model.CodeDecryptionFailed, "resource.resolve", "bad key")))
	assert.NoError(t, svc.NewError("not an error"))
	assert.NoError(t, svc.NewCaptureStats(model.CaptureStats{Name: "single", Captures: 1, Frames: 3}))
}
