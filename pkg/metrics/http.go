package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API surface.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests served.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Requests currently being served.",
	})
	reg.MustRegister(requests, duration, inFlight)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
		inFlight: inFlight,
	}
}

// ObserveRequest records a completed request.
func (h *HTTPMetrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	h.requests.WithLabelValues(normalizeLabel(method), normalizeLabel(route), normalizeLabel(status)).Inc()
	h.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(route)).Observe(elapsed.Seconds())
}

// IncInFlight bumps the in-flight gauge.
func (h *HTTPMetrics) IncInFlight() {
	if h == nil || h.inFlight == nil {
		return
	}
	h.inFlight.Inc()
}

// DecInFlight releases the in-flight gauge.
func (h *HTTPMetrics) DecInFlight() {
	if h == nil || h.inFlight == nil {
		return
	}
	h.inFlight.Dec()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
