package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/config"
)

const (
	runReportsFile   = "run-reports"
	errorsFile       = "errors"
	captureStatsFile = "capture-stats"
)

type filesDBService struct {
	CfgSvc config.IService

	mu sync.Mutex
}

// NewFilesDB keeps every entity kind in its own JSON array file under the
// configured report folder.
func NewFilesDB(cfgsvc config.IService) IService {
	return &filesDBService{
		CfgSvc: cfgsvc,
	}
}

func (svc *filesDBService) NewRunReport(report model.RunReport) error {
	if report.Timestamp == 0 {
		report.Timestamp = time.Now().Unix()
	}
	if report.LegacyCode == 0 && report.Code != "" {
		report.LegacyCode = report.Code.Legacy()
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	return newEntity(report, runReportsFile, svc.CfgSvc)
}

func (svc *filesDBService) RetrieveRunReports(op model.Operation, max int) ([]model.RunReport, error) {
	svc.mu.Lock()
	reports, err := retrieveEntities[model.RunReport](runReportsFile, svc.CfgSvc)
	svc.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return filterReports(reports, op, max), nil
}

func (svc *filesDBService) NewError(err interface{}) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return newEntity(toErrorRecord(err, time.Now().Unix()), errorsFile, svc.CfgSvc)
}

func (svc *filesDBService) NewCaptureStats(stats model.CaptureStats) error {
	stats.Timestamp = time.Now().Unix()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	return newEntity(stats, captureStatsFile, svc.CfgSvc)
}

// filterReports keeps op's reports, newest first, capped at max.
func filterReports(reports []model.RunReport, op model.Operation, max int) []model.RunReport {
	result := []model.RunReport{}
	for i := len(reports) - 1; i >= 0; i-- {
		if op != "" && reports[i].Operation != op {
			continue
		}
		result = append(result, reports[i])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp > result[j].Timestamp
	})
	if max > 0 && len(result) > max {
		result = result[:max]
	}
	return result
}

func entityPath(filename string, cfgsvc config.IService) string {
	return filepath.Join(cfgsvc.GetReportFolder(), fmt.Sprintf("%s.json", filename))
}

func newEntity[T any](entity T, filename string, cfgsvc config.IService) error {
	entities, err := retrieveEntities[T](filename, cfgsvc)
	if err != nil {
		return err
	}

	entities = append(entities, entity)

	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgsvc.GetReportFolder(), 0755); err != nil {
		return err
	}

	return os.WriteFile(entityPath(filename, cfgsvc), data, 0644)
}

func retrieveEntities[T any](filename string, cfgsvc config.IService) ([]T, error) {
	entities := []T{}

	data, err := os.ReadFile(entityPath(filename, cfgsvc))
	if os.IsNotExist(err) {
		return entities, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}
