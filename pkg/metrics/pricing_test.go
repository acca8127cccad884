package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPricingMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPricingMetrics(reg)

	m.ObserveWrite("replace_by_shape", "ok", 20*time.Millisecond)
	m.IncResolution(PathCart, "tier")
	m.IncResolution(PathCart, "tier")
	m.IncResolution(PathPreview, "")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "tier_writes_total", map[string]string{"policy": "replace_by_shape", "outcome": "ok"}); err != nil {
		t.Fatalf("fetch writes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected writes=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "price_resolutions_total", map[string]string{"path": PathCart, "outcome": "tier"}); err != nil {
		t.Fatalf("fetch resolutions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected resolutions=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "price_resolutions_total", map[string]string{"path": PathPreview, "outcome": "unknown"}); err != nil {
		t.Fatalf("fetch normalized resolution: %v", err)
	} else if got != 1 {
		t.Fatalf("expected empty outcome to be labelled unknown, got %f", got)
	}
}

func TestPricingMetricsNilSafe(t *testing.T) {
	var m *PricingMetrics
	m.ObserveWrite("replace_all", "ok", time.Second)
	m.IncResolution(PathCart, "tier")

	NewPricingMetrics(nil).IncResolution(PathCart, "tier")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric, labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %s%v not found", name, labels)
}

func matchesLabels(metric *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, pair := range metric.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if pair.GetValue() != want {
				return false
			}
			matched++
		}
	}
	return matched == len(labels)
}
