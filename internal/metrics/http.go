package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// HTTPMetricsMiddleware creates a Gin middleware that records HTTP metrics
func HTTPMetricsMiddleware(m Recorder) gin.HandlerFunc {
	// If NoopMetrics, return a lightweight middleware that does nothing
	if _, ok := m.(*NoopMetrics); ok {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	// Type assert to concrete Metrics for Prometheus access
	metrics, ok := m.(*Metrics)
	if !ok {
		// Fallback if unknown implementation
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-recording
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		// Increment in-flight counter
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		// Process request
		c.Next()

		// Record metrics after request completes
		duration := time.Since(start).Seconds()
		method := c.Request.Method
		path := normalizePath(c.FullPath()) // Use route pattern, not actual path
		status := strconv.Itoa(c.Writer.Status())

		// Record request count
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()

		// Record request duration
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// normalizePath converts the actual request path to route pattern
// Returns the route pattern (e.g., "/users/:id") or "unknown" if no match
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
