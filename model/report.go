package model

import "time"

type Operation string

const (
	OpClassify     Operation = "classify"
	OpSegment      Operation = "segment"
	OpSegmentBatch Operation = "segmentBatch"
	OpInvert       Operation = "invert"
	OpCapture      Operation = "capture"
)

// RunReport records the outcome of one pipeline invocation. Code is carried
// as its legacy integer so persisted reports stay readable by older tooling.
type RunReport struct {
	ID           string             `json:"id"`
	Operation    Operation          `json:"operation"`
	Code         Code               `json:"code"`
	LegacyCode   int                `json:"legacyCode"`
	Kind         Kind               `json:"kind,omitempty"`
	Message      string             `json:"message,omitempty"`
	DurationMs   int64              `json:"durationMs"`
	Timestamp    int64              `json:"timestamp"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
}

// NewRunReport fills code, kind and message from err; a nil err is a success.
func NewRunReport(id string, op Operation, started time.Time, err error) RunReport {
	code := CodeOf(err)
	r := RunReport{
		ID:         id,
		Operation:  op,
		Code:       code,
		LegacyCode: code.Legacy(),
		DurationMs: time.Since(started).Milliseconds(),
		Timestamp:  time.Now().Unix(),
	}
	if err != nil {
		r.Kind = KindOf(err)
		r.Message = err.Error()
	}
	return r
}
