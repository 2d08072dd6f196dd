package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.IncInFlight()
	m.ObserveRequest("POST", "/api/deals", "201", 120*time.Millisecond)
	m.DecInFlight()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	mf := findMetricFamily(mfs, "http_requests_total")
	if mf == nil {
		t.Fatal("http_requests_total not found")
	}
	metric := mf.GetMetric()
	if len(metric) != 1 {
		t.Fatalf("expected one series, got %d", len(metric))
	}
	if !matchesLabel(metric[0].GetLabel(), "route", "/api/deals") {
		t.Fatalf("missing route label")
	}
	if got := metric[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected requests=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/deals"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestDeskingMetricsExportsCalculationSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDeskingMetrics(reg)
	m.ObserveCalculation("finance", 2*time.Millisecond)
	m.ObserveCalculation("finance", 3*time.Millisecond)
	m.IncFailure("lease")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "deal_calculations_total", "deal_type", "finance"); err != nil {
		t.Fatalf("fetch calculations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected calculations=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "deal_calculation_failures_total", "deal_type", "lease"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "deal_calculation_duration_seconds", "deal_type", "finance"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilRegistererProducesNoopMetrics(t *testing.T) {
	h := NewHTTPMetrics(nil)
	h.ObserveRequest("GET", "/healthz", "200", time.Millisecond)
	h.IncInFlight()
	h.DecInFlight()

	d := NewDeskingMetrics(nil)
	d.ObserveCalculation("cash", time.Millisecond)
	d.IncFailure("cash")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
