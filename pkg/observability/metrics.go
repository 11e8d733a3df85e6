package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total number of HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echo_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ActiveRequests tracks currently active requests
	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "echo_http_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"method"},
	)

	// CaptureOperationsTotal counts capture service calls by outcome
	CaptureOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echo_capture_operations_total",
			Help: "Capture operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// CapturedTransactionsTotal counts transactions extracted from text
	CapturedTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echo_capture_transactions_total",
			Help: "Transactions extracted from captured text",
		},
		[]string{"direction", "category"},
	)
)

// Capture outcomes
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// NewMetricsMiddleware collects Prometheus metrics for every request. It must
// wrap the ServeMux directly: routes are labelled with the pattern the mux
// matched, or "unmatched".
func NewMetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Track active requests
			ActiveRequests.WithLabelValues(r.Method).Inc()
			defer ActiveRequests.WithLabelValues(r.Method).Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		})
	}
}
