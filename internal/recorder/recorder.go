package recorder

import "time"

// AnalysisAuditRecord is one write-only row logged after a successful
// get_full_analysis or get_trading_signals call. The core never reads it
// back; it exists purely as a best-effort audit trail.
type AnalysisAuditRecord struct {
	ID         string
	Tool       string
	Symbol     string
	Timeframe  string
	Risk       string
	Verdict    string
	Confidence float64
	Timestamp  time.Time
}

// Recorder persists AnalysisAuditRecords. The handler calls it fire-and-
// forget after a successful analysis call: errors are logged, never
// surfaced to the RPC caller.
type Recorder interface {
	RecordAnalysis(rec *AnalysisAuditRecord) error
	Close() error
}
