package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests per route template and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "status"})

	// RequestDuration observes handler latency per route template.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// PageViewsRecorded counts successful portfolio visit increments.
	PageViewsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_page_views_recorded_total",
		Help: "Total number of recorded portfolio visits",
	})

	// ResumeExports counts resume exports by result (ok, not_found, error).
	ResumeExports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_resume_exports_total",
		Help: "Total number of resume export attempts",
	}, []string{"result"})

	// ResumeExportDuration observes the time spent loading and rendering a resume.
	ResumeExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folio_resume_export_duration_seconds",
		Help:    "Resume generation duration in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
)

// StatusBucket collapses an HTTP status code into its class label.
func StatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
