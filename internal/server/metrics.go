package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments the HTTP surface: a request counter and a latency
// histogram, both labeled by endpoint, method, and status.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockcast_http_requests_total",
		Help: "Total HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	registry.MustRegister(requests)

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stockcast_http_request_duration_seconds",
		Help:    "HTTP request latency by endpoint, method, and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status"})
	registry.MustRegister(duration)

	return &Metrics{
		registry: registry,
		requests: requests,
		duration: duration,
	}
}

// Handler serves the exposition endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records a sample for every request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		status := strconv.Itoa(rw.statusCode)
		endpoint := endpointLabel(r.URL.Path)
		m.requests.WithLabelValues(endpoint, r.Method, status).Inc()
		m.duration.WithLabelValues(endpoint, r.Method, status).Observe(time.Since(start).Seconds())
	})
}

// endpointLabel collapses symbol-bearing paths to a fixed form so label
// cardinality stays bounded.
func endpointLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/stocks/"):
		return "/api/stocks/{symbol}"
	case strings.HasPrefix(path, "/api/predict/"):
		return "/api/predict/{symbol}"
	}
	return path
}
