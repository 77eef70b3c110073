// Package metrics exposes Prometheus collectors for HTTP traffic and the
// inquiry pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unmatchedRoute = "unmatched"

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// Database metrics
	dbQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// Business metrics
	inquirySubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_submissions_total",
			Help: "Total number of inquiry submissions by result",
		},
		[]string{"result"}, // accepted, rejected, failed
	)

	inquirySinkWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_sink_writes_total",
			Help: "Total number of inquiry sink writes by outcome",
		},
		[]string{"sink", "outcome"}, // ok, skipped, failed
	)

	adminQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_queries_total",
			Help: "Total number of admin inquiry queries",
		},
		[]string{"format", "status"},
	)
)

// Middleware records request counts and latency. Routes are labelled by
// their registered pattern so unmatched paths cannot blow up cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = unmatchedRoute
		}
		statusCode := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, statusCode).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint, statusCode).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordInquirySubmission records the final result of one submission.
func RecordInquirySubmission(result string) {
	inquirySubmissionsTotal.WithLabelValues(result).Inc()
}

// RecordSinkWrite records one sink write outcome.
func RecordSinkWrite(sink, outcome string) {
	inquirySinkWritesTotal.WithLabelValues(sink, outcome).Inc()
}

// RecordAdminQuery records an admin listing or export.
func RecordAdminQuery(format string, status int) {
	adminQueriesTotal.WithLabelValues(format, strconv.Itoa(status)).Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	dbQueriesTotal.WithLabelValues(operation, status).Inc()
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
