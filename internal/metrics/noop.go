package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

// Verification pipeline - noop implementations
func (n *NoopMetrics) RecordVerification(status string, duration time.Duration)  {}
func (n *NoopMetrics) RecordTokenExchange(result string, duration time.Duration) {}
func (n *NoopMetrics) RecordProfileFetch(result string, duration time.Duration)  {}

// Audit trail - noop implementations
func (n *NoopMetrics) RecordAuditFlush(sink string, rows int, success bool) {}
func (n *NoopMetrics) RecordAuditDropped()                                  {}
