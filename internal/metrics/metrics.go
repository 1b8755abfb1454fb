// Package metrics exposes Prometheus collectors for the ID service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IDMetrics aggregates the collectors for ID generation. Collectors are
// registered on a private registry so tests can create instances freely.
type IDMetrics struct {
	registry *prometheus.Registry

	GeneratedTotal  prometheus.Counter
	GenerateErrors  *prometheus.CounterVec
	SlotsInUse      prometheus.Gauge
	GenerateLatency prometheus.Histogram
}

// NewIDMetrics creates and registers the collectors.
func NewIDMetrics() *IDMetrics {
	m := &IDMetrics{
		registry: prometheus.NewRegistry(),
		GeneratedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "switflake_ids_generated_total",
			Help: "Total number of IDs generated",
		}),
		GenerateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "switflake_generate_errors_total",
			Help: "Total number of failed generate calls",
		}, []string{"reason"}),
		SlotsInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "switflake_slots_in_use",
			Help: "Generator slots currently held by live sessions",
		}),
		GenerateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "switflake_generate_duration_seconds",
			Help:    "Latency of generate requests",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	m.registry.MustRegister(m.GeneratedTotal, m.GenerateErrors, m.SlotsInUse, m.GenerateLatency)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *IDMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveGenerate records a successful generate call producing n IDs.
func (m *IDMetrics) ObserveGenerate(n int, elapsed time.Duration) {
	m.GeneratedTotal.Add(float64(n))
	m.GenerateLatency.Observe(elapsed.Seconds())
}

// ObserveError records a failed generate call by reason.
func (m *IDMetrics) ObserveError(reason string) {
	m.GenerateErrors.WithLabelValues(reason).Inc()
}
