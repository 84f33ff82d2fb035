package data

import "github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"

type IService interface {
	NewRunReport(report model.RunReport) error
	// RetrieveRunReports returns the newest reports first. An empty op
	// matches every operation; max <= 0 means no limit.
	RetrieveRunReports(op model.Operation, max int) ([]model.RunReport, error)

	NewError(err interface{}) error
	NewCaptureStats(stats model.CaptureStats) error
}

// errorRecord is the persisted shape of an error passed to NewError.
type errorRecord struct {
	Timestamp  int64                  `json:"timestamp"`
	Processor  string                 `json:"processor"`
	Inner      string                 `json:"innerError"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	LegacyCode int                    `json:"legacyCode,omitempty"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func toErrorRecord(err interface{}, now int64) errorRecord {
	rec := errorRecord{Timestamp: now, Processor: "N/A", StackTrace: "N/A"}

	switch e := err.(type) {
	case model.CustomError:
		rec.Processor = e.Processor
		rec.Message = e.Message
		rec.StackTrace = e.StackTrace
		rec.Misc = e.Misc
		if e.Inner != nil {
			rec.Inner = e.Inner.Error()
		}
	case error:
		rec.Inner = e.Error()
		rec.Message = e.Error()
	default:
		rec.Message = "unknown error"
		rec.Misc = map[string]interface{}{"value": e}
	}

	if e, ok := err.(error); ok {
		code := model.CodeOf(e)
		rec.Code = string(code)
		rec.LegacyCode = code.Legacy()
	}
	return rec
}
