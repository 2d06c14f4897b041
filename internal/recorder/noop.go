package recorder

// NoopRecorder is a no-op implementation used when --sqlite-path is not set.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ *AnalysisAuditRecord) error { return nil }
func (n *NoopRecorder) Close() error                                { return nil }
