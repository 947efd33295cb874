// Package metrics provides Prometheus metrics collection for the graph gateway.
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

	// GraphQueriesTotal tracks graph queries by kind (read/write) and outcome.
	GraphQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_queries_total",
			Help: "Total number of graph queries",
		},
		[]string{"kind", "status"},
	)

	// GraphQueryDuration tracks graph query duration, cache hits included.
	GraphQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graph_query_duration_seconds",
			Help:    "Graph query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"kind"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheRemoteErrorsTotal tracks absorbed remote cache backend failures.
	CacheRemoteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_remote_errors_total",
			Help: "Total number of remote cache backend errors absorbed by the fallback",
		},
		[]string{"backend", "operation"},
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

// RecordGraphQuery records metrics for a graph query.
func RecordGraphQuery(kind string, duration time.Duration, status string) {
	GraphQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
	GraphQueriesTotal.WithLabelValues(kind, status).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordCacheRemoteError records a remote backend failure that was absorbed.
func RecordCacheRemoteError(backend, operation string) {
	CacheRemoteErrorsTotal.WithLabelValues(backend, operation).Inc()
}
