package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics surface used by the services. A noop
// implementation is returned when metrics are disabled.
type Recorder interface {
	// Verification pipeline
	RecordVerification(status string, duration time.Duration)
	RecordTokenExchange(result string, duration time.Duration)
	RecordProfileFetch(result string, duration time.Duration)

	// Audit trail
	RecordAuditFlush(sink string, rows int, success bool)
	RecordAuditDropped()
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Verification Metrics
	VerificationsTotal    *prometheus.CounterVec
	VerificationDuration  *prometheus.HistogramVec
	TokenExchangesTotal   *prometheus.CounterVec
	TokenExchangeDuration prometheus.Histogram
	ProfileFetchesTotal   *prometheus.CounterVec
	ProfileFetchDuration  prometheus.Histogram

	// Audit Metrics
	AuditRowsWrittenTotal *prometheus.CounterVec
	AuditFlushesTotal     *prometheus.CounterVec
	AuditRowsDroppedTotal prometheus.Counter

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		// Verification Metrics
		VerificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "karma_verifications_total",
				Help: "Total number of verification verdicts",
			},
			[]string{"status"}, // pass, fail, banned
		),
		VerificationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "karma_verification_duration_seconds",
				Help:    "End-to-end verification duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		TokenExchangesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reddit_token_exchanges_total",
				Help: "Total number of token exchange attempts",
			},
			[]string{"result"}, // success, rejected, error
		),
		TokenExchangeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reddit_token_exchange_duration_seconds",
				Help:    "Token exchange call duration",
				Buckets: prometheus.DefBuckets,
			},
		),
		ProfileFetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reddit_profile_fetches_total",
				Help: "Total number of profile fetch attempts",
			},
			[]string{"result"}, // success, malformed, error
		),
		ProfileFetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reddit_profile_fetch_duration_seconds",
				Help:    "Profile fetch call duration",
				Buckets: prometheus.DefBuckets,
			},
		),

		// Audit Metrics
		AuditRowsWrittenTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_rows_written_total",
				Help: "Total number of audit rows written per sink",
			},
			[]string{"sink"},
		),
		AuditFlushesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_flushes_total",
				Help: "Total number of audit batch flushes per sink",
			},
			[]string{"sink", "result"}, // success, error
		),
		AuditRowsDroppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "audit_rows_dropped_total",
				Help: "Total number of audit rows dropped due to a full buffer",
			},
		),

		// HTTP Request Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

// RecordVerification records one verdict with its end-to-end duration
func (m *Metrics) RecordVerification(status string, duration time.Duration) {
	m.VerificationsTotal.WithLabelValues(status).Inc()
	m.VerificationDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordTokenExchange records one token exchange attempt
func (m *Metrics) RecordTokenExchange(result string, duration time.Duration) {
	m.TokenExchangesTotal.WithLabelValues(result).Inc()
	m.TokenExchangeDuration.Observe(duration.Seconds())
}

// RecordProfileFetch records one profile fetch attempt
func (m *Metrics) RecordProfileFetch(result string, duration time.Duration) {
	m.ProfileFetchesTotal.WithLabelValues(result).Inc()
	m.ProfileFetchDuration.Observe(duration.Seconds())
}

// RecordAuditFlush records one audit batch flush outcome
func (m *Metrics) RecordAuditFlush(sink string, rows int, success bool) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	m.AuditFlushesTotal.WithLabelValues(sink, result).Inc()
	if success {
		m.AuditRowsWrittenTotal.WithLabelValues(sink).Add(float64(rows))
	}
}

// RecordAuditDropped records one audit row dropped on a full buffer
func (m *Metrics) RecordAuditDropped() {
	m.AuditRowsDroppedTotal.Inc()
}
