// Package metrics exposes enhancement service metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "photoenhance"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds service collectors on a dedicated registry.
type Metrics struct {
	reg *prometheus.Registry

	enhancements *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	megapixels   prometheus.Histogram
	cached       prometheus.Gauge
	limited      prometheus.Counter
}

// New creates and registers collectors, including Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		enhancements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enhancements_total",
			Help:      "Enhancement requests by preset and outcome.",
		}, []string{"preset", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enhance_duration_seconds",
			Help:      "Time to decode, adjust and encode an image.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"preset"}),
		megapixels: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processed_megapixels",
			Help:      "Size of adjusted images in megapixels.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 12, 16, 24, 50},
		}),
		cached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_results",
			Help:      "Results currently held in memory.",
		}),
		limited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}

	m.reg.MustRegister(
		m.enhancements, m.duration, m.megapixels, m.cached, m.limited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveEnhance records a finished enhancement. Width and height are of the adjusted image.
func (m *Metrics) ObserveEnhance(preset, outcome string, elapsed time.Duration, width, height int) {
	m.enhancements.WithLabelValues(preset, outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	m.duration.WithLabelValues(preset).Observe(elapsed.Seconds())
	m.megapixels.Observe(float64(width*height) / 1e6)
}

// SetCached sets the number of cached results.
func (m *Metrics) SetCached(n int) {
	m.cached.Set(float64(n))
}

// RateLimited counts a request rejected by the rate limiter.
func (m *Metrics) RateLimited() {
	m.limited.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{
		Registry: m.reg,
	})
}
