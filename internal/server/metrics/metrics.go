// Package metrics exposes Prometheus instrumentation for the graph
// mutation endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the mutation counters and latency histogram on a private
// registry, so tests can construct instances without global collisions.
type Metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopgraph",
			Name:      "mutations_total",
			Help:      "Mutation invocations by name and outcome.",
		}, []string{"mutation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shopgraph",
			Name:      "mutation_duration_seconds",
			Help:      "Mutation handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mutation"}),
	}

	registry.MustRegister(m.mutations, m.duration)
	return m
}

// ObserveMutation records one mutation invocation.
func (m *Metrics) ObserveMutation(name, outcome string, elapsed time.Duration) {
	m.mutations.WithLabelValues(name, outcome).Inc()
	m.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
