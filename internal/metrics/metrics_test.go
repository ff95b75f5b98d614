package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	m := Init(true)
	assert.NotNil(t, m)

	// Type assert to concrete Metrics to access fields
	metrics, ok := m.(*Metrics)
	assert.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.VerificationsTotal)
	assert.NotNil(t, metrics.TokenExchangesTotal)
	assert.NotNil(t, metrics.AuditFlushesTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	assert.NotNil(t, m)

	// Type assert to NoopMetrics
	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")
}

func TestInitReturnsSameInstance(t *testing.T) {
	m1 := Init(true)
	m2 := Init(true)
	assert.Equal(t, m1, m2, "Init(true) should return the same instance")
}

func TestRecordVerification(t *testing.T) {
	m := Init(true)

	m.RecordVerification("pass", 200*time.Millisecond)
	m.RecordVerification("fail", 150*time.Millisecond)
	m.RecordVerification("banned", 180*time.Millisecond)
	// No error means success - prometheus metrics don't return errors for recording
}

func TestRecordTokenExchange(t *testing.T) {
	m := Init(true)

	m.RecordTokenExchange("success", 300*time.Millisecond)
	m.RecordTokenExchange("rejected", 250*time.Millisecond)
	m.RecordTokenExchange("error", 100*time.Millisecond)
	// No error means success
}

func TestRecordProfileFetch(t *testing.T) {
	m := Init(true)

	m.RecordProfileFetch("success", 120*time.Millisecond)
	m.RecordProfileFetch("malformed", 90*time.Millisecond)
	// No error means success
}

func TestRecordAuditFlush(t *testing.T) {
	m := Init(true)

	m.RecordAuditFlush("database", 10, true)
	m.RecordAuditFlush("sheet", 10, false)
	// No error means success
}

func TestRecordAuditDropped(t *testing.T) {
	m := Init(true)

	m.RecordAuditDropped()
	// No error means success
}

func TestNoopRecorderMethods(t *testing.T) {
	m := NewNoopMetrics()

	// All methods are safe no-ops
	m.RecordVerification("pass", time.Second)
	m.RecordTokenExchange("success", time.Second)
	m.RecordProfileFetch("success", time.Second)
	m.RecordAuditFlush("database", 1, true)
	m.RecordAuditDropped()
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		fullPath string
		expected string
	}{
		{"empty path", "", "unknown"},
		{"root path", "/", "/"},
		{"auth endpoint", "/auth", "/auth"},
		{"health check", "/health", "/health"},
		{"admin logs", "/api/logs", "/api/logs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizePath(tt.fullPath)
			assert.Equal(t, tt.expected, result)
		})
	}
}
