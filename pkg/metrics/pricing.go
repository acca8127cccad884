package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution paths.
const (
	PathCart    = "cart"
	PathPreview = "preview"
)

// PricingMetrics records tier writes and price resolutions.
type PricingMetrics struct {
	writes        *prometheus.CounterVec
	writeDuration *prometheus.HistogramVec
	resolutions   *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tier_writes_total",
		Help: "Tier writes by write policy and outcome.",
	}, []string{"policy", "outcome"})
	writeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tier_write_duration_seconds",
		Help:    "Duration of tier writes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"policy"})
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolutions_total",
		Help: "Price resolutions by path and price source or failure.",
	}, []string{"path", "outcome"})
	reg.MustRegister(writes, writeDuration, resolutions)
	return &PricingMetrics{
		writes:        writes,
		writeDuration: writeDuration,
		resolutions:   resolutions,
	}
}

// ObserveWrite records one tier write.
func (m *PricingMetrics) ObserveWrite(policy, outcome string, duration time.Duration) {
	if m == nil || m.writes == nil {
		return
	}
	m.writes.WithLabelValues(normalizeLabel(policy), normalizeLabel(outcome)).Inc()
	m.writeDuration.WithLabelValues(normalizeLabel(policy)).Observe(duration.Seconds())
}

// IncResolution counts one resolution on path.
func (m *PricingMetrics) IncResolution(path, outcome string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(path), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
