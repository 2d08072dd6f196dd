package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DeskingMetrics records deal calculation activity.
type DeskingMetrics struct {
	calculations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	failures     *prometheus.CounterVec
}

// NewDeskingMetrics registers the desking engine metrics on the provided registerer.
func NewDeskingMetrics(reg prometheus.Registerer) *DeskingMetrics {
	if reg == nil {
		return &DeskingMetrics{}
	}
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deal_calculations_total",
		Help: "Completed deal recalculations.",
	}, []string{"deal_type"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deal_calculation_duration_seconds",
		Help:    "Duration of deal recalculations in seconds.",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	}, []string{"deal_type"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deal_calculation_failures_total",
		Help: "Deal recalculations rejected for invalid inputs.",
	}, []string{"deal_type"})
	reg.MustRegister(calculations, duration, failures)
	return &DeskingMetrics{
		calculations: calculations,
		duration:     duration,
		failures:     failures,
	}
}

// ObserveCalculation records a successful recalculation for the deal type.
func (d *DeskingMetrics) ObserveCalculation(dealType string, elapsed time.Duration) {
	if d == nil || d.calculations == nil {
		return
	}
	d.calculations.WithLabelValues(normalizeLabel(dealType)).Inc()
	d.duration.WithLabelValues(normalizeLabel(dealType)).Observe(elapsed.Seconds())
}

// IncFailure increments the failure counter for the deal type.
func (d *DeskingMetrics) IncFailure(dealType string) {
	if d == nil || d.failures == nil {
		return
	}
	d.failures.WithLabelValues(normalizeLabel(dealType)).Inc()
}
