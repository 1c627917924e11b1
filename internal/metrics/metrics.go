// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// CreditCalculationsTotal counts credit estimates by where the result came from.
	CreditCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_calculations_total",
			Help: "Total number of credit estimates by source",
		},
		[]string{"source"},
	)

	// CreditCalculationDuration tracks how long an estimate takes end to end.
	CreditCalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "credit_calculation_duration_seconds",
			Help:    "Credit estimate duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// HTTPResponseCacheTotal counts response cache lookups per route.
	HTTPResponseCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_response_cache_total",
			Help: "Response cache lookups by route and result",
		},
		[]string{"path", "result"},
	)

	// UpstreamRequestDuration tracks calls to the record store by table and outcome.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Record store request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"table", "status"},
	)

	// CircuitBreakerState reports each breaker's state: 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordCreditCalculation records one estimate served from source ("computed" or "cached").
func RecordCreditCalculation(duration time.Duration, source string) {
	CreditCalculationDuration.Observe(duration.Seconds())
	CreditCalculationsTotal.WithLabelValues(source).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordResponseCache records a response cache HIT or MISS for a route.
func RecordResponseCache(path, result string) {
	HTTPResponseCacheTotal.WithLabelValues(path, result).Inc()
}

// RecordUpstreamRequest records a record store call.
func RecordUpstreamRequest(table, status string, duration time.Duration) {
	UpstreamRequestDuration.WithLabelValues(table, status).Observe(duration.Seconds())
}

// SetCircuitBreakerState records the state of a named circuit breaker.
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}
