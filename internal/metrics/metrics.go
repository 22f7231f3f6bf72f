package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// CatalogSize is the number of records per catalog resource (tool, author, book, user).
	CatalogSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_records",
			Help: "Number of records per catalog resource",
		},
		[]string{"resource"},
	)

	// TokensIssued counts tokens created by the credential issuer. Repeated
	// logins that reuse an existing token do not count.
	TokensIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of auth tokens created",
		},
	)

	// LoginFailures counts rejected login attempts.
	LoginFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_login_failures_total",
			Help: "Total number of failed login attempts",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	toolPathSegment    = regexp.MustCompile(`(/tools/)[^/]+`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, CatalogSize, TokensIssued, LoginFailures)
	})
}

// NormalizePath reduces label cardinality by replacing id path segments with {id}.
// E.g. /api/authors/123/ -> /api/authors/{id}/, /api/tools/bwa-mem/ -> /api/tools/{id}/.
func NormalizePath(path string) string {
	path = numericPathSegment.ReplaceAllString(path, "/{id}$1")
	return toolPathSegment.ReplaceAllString(path, "${1}{id}")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// SetCatalogSize sets the record-count gauge for one resource.
func SetCatalogSize(resource string, n int) {
	CatalogSize.WithLabelValues(resource).Set(float64(n))
}
