// Package metrics exposes Prometheus collectors for optimizations and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rankbudget"

// Metrics holds every collector, registered on its own registry. A nil
// *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	optimizations   *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	downgradeSteps  *prometheus.HistogramVec
	overrun         *prometheus.GaugeVec
	rejected        *prometheus.CounterVec
	categorizations *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates the collectors. Go runtime and process collectors are included
// when withRuntime is set.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		optimizations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "optimizations_total",
				Help:      "Channel optimizations by kind, channel and terminal status",
			},
			[]string{"kind", "channel", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "optimization_duration_seconds",
				Help:      "Wall time of a full optimization request",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"kind"},
		),
		downgradeSteps: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "downgrade_steps",
				Help:      "Downgrades applied per greedy channel run",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"channel"},
		),
		overrun: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_overrun",
				Help:      "Budget overrun of the most recent run per channel",
			},
			[]string{"channel"},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejected_curves_total",
				Help:      "Keyword curves excluded as malformed",
			},
			[]string{"channel", "reason"},
		),
		categorizations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "categorized_keywords_total",
				Help:      "Keywords categorized, by cache outcome",
			},
			[]string{"source"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route pattern and status code",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route pattern",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the underlying registry, for gathering in tests or
// registering extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveChannel records one finished channel run. steps < 0 means the run
// kind has no downgrade steps.
func (m *Metrics) ObserveChannel(kind, channel, status string, steps int, overrun float64) {
	if m == nil {
		return
	}
	m.optimizations.WithLabelValues(kind, channel, status).Inc()
	if steps >= 0 {
		m.downgradeSteps.WithLabelValues(channel).Observe(float64(steps))
	}
	m.overrun.WithLabelValues(channel).Set(overrun)
}

// ObserveRejected counts a malformed curve.
func (m *Metrics) ObserveRejected(channel, reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(channel, reason).Inc()
}

// ObserveDuration records the wall time of a request of the given kind.
func (m *Metrics) ObserveDuration(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveCategorized counts categorized keywords.
func (m *Metrics) ObserveCategorized(cached, fresh int) {
	if m == nil {
		return
	}
	m.categorizations.WithLabelValues("cache").Add(float64(cached))
	m.categorizations.WithLabelValues("model").Add(float64(fresh))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
