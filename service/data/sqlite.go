package data

import (
	"encoding/json"
	"time"

	"golang.org/x/xerrors"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

type RunReportRecord struct {
	ID           uint           `gorm:"primaryKey"`
	ReportID     string         `gorm:"type:varchar(64);index"`
	Operation    string         `gorm:"type:varchar(32);index"`
	Code         string         `gorm:"type:varchar(64)"`
	LegacyCode   int            `gorm:"index"`
	Kind         string         `gorm:"type:varchar(32)"`
	Message      string         `gorm:"type:text"`
	DurationMs   int64
	Timestamp    int64          `gorm:"index"`
	Measurements datatypes.JSON
	CreatedAt    time.Time
}

type ErrorRecord struct {
	ID        uint `gorm:"primaryKey"`
	Timestamp int64
	Data      datatypes.JSON
	CreatedAt time.Time
}

type CaptureStatsRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(64);index"`
	Timestamp int64
	Data      datatypes.JSON
	CreatedAt time.Time
}

type sqliteService struct {
	db *gorm.DB
}

// OpenSQLite opens the database at dsn with gorm's logger silenced.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to open database %s: %w", dsn, err)
	}
	return db, nil
}

// NewSQLite migrates the report tables on db and returns a store backed by it.
func NewSQLite(db *gorm.DB) (IService, error) {
	if err := db.AutoMigrate(&RunReportRecord{}, &ErrorRecord{}, &CaptureStatsRecord{}); err != nil {
		return nil, xerrors.Errorf("failed to migrate report tables: %w", err)
	}
	return &sqliteService{db: db}, nil
}

func (svc *sqliteService) NewRunReport(report model.RunReport) error {
	if report.Timestamp == 0 {
		report.Timestamp = time.Now().Unix()
	}
	if report.LegacyCode == 0 && report.Code != "" {
		report.LegacyCode = report.Code.Legacy()
	}

	measurements, err := json.Marshal(report.Measurements)
	if err != nil {
		return err
	}

	return svc.db.Create(&RunReportRecord{
		ReportID:     report.ID,
		Operation:    string(report.Operation),
		Code:         string(report.Code),
		LegacyCode:   report.LegacyCode,
		Kind:         string(report.Kind),
		Message:      report.Message,
		DurationMs:   report.DurationMs,
		Timestamp:    report.Timestamp,
		Measurements: datatypes.JSON(measurements),
	}).Error
}

func (svc *sqliteService) RetrieveRunReports(op model.Operation, max int) ([]model.RunReport, error) {
	query := svc.db.Order("timestamp desc").Order("id desc")
	if op != "" {
		query = query.Where("operation = ?", string(op))
	}
	if max > 0 {
		query = query.Limit(max)
	}

	var records []RunReportRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	reports := make([]model.RunReport, 0, len(records))
	for _, rec := range records {
		report := model.RunReport{
			ID:         rec.ReportID,
			Operation:  model.Operation(rec.Operation),
			Code:       model.CodeFromLegacy(rec.LegacyCode),
			LegacyCode: rec.LegacyCode,
			Kind:       model.Kind(rec.Kind),
			Message:    rec.Message,
			DurationMs: rec.DurationMs,
			Timestamp:  rec.Timestamp,
		}
		if len(rec.Measurements) > 0 && string(rec.Measurements) != "null" {
			if err := json.Unmarshal(rec.Measurements, &report.Measurements); err != nil {
				return nil, err
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (svc *sqliteService) NewError(err interface{}) error {
	now := time.Now().Unix()
	data, jsonErr := json.Marshal(toErrorRecord(err, now))
	if jsonErr != nil {
		return jsonErr
	}
	return svc.db.Create(&ErrorRecord{Timestamp: now, Data: datatypes.JSON(data)}).Error
}

func (svc *sqliteService) NewCaptureStats(stats model.CaptureStats) error {
	stats.Timestamp = time.Now().Unix()
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return svc.db.Create(&CaptureStatsRecord{
		Name:      stats.Name,
		Timestamp: stats.Timestamp,
		Data:      datatypes.JSON(data),
	}).Error
}
