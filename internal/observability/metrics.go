package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docdrop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docdrop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	ExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docdrop_extractions_total",
			Help: "Total number of text extractions by document kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	ExtractionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docdrop_extraction_duration_seconds",
			Help:    "Text extraction duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"kind"},
	)

	SelectionChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docdrop_selection_changes_total",
			Help: "Selection change notifications by action (replace, clear)",
		},
		[]string{"action"},
	)
)

var initOnce sync.Once

// InitMetrics registers the collectors with the default registry. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(ExtractionsTotal)
		prometheus.MustRegister(ExtractionDuration)
		prometheus.MustRegister(SelectionChangesTotal)
	})
}

// HTTPMetricsMiddleware records request counts and latencies per route pattern.
// Requests that match no route share the "unmatched" label.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveExtraction records one finished extraction.
func ObserveExtraction(kind string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	ExtractionsTotal.WithLabelValues(kind, outcome).Inc()
	ExtractionDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

func SelectionChanged(action string) {
	SelectionChangesTotal.WithLabelValues(action).Inc()
}
