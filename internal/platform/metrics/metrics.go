package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracker"

// Metrics holds tracker counters. Nil *Metrics is valid and records nothing.
type Metrics struct {
	Transitions  *prometheus.CounterVec
	Selected     *prometheus.CounterVec
	Fetches      *prometheus.CounterVec
	Aggregations *prometheus.CounterVec
}

// NewMetrics creates and registers tracker metrics in reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Total number of applied lifecycle transitions",
		}, []string{"from", "to"}),
		Selected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selected_total",
			Help:      "Total number of product ids selected for fetching by eligibility reason",
		}, []string{"reason"}),
		Fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Total number of fetch attempts by outcome",
		}, []string{"outcome"}),
		Aggregations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregations_total",
			Help:      "Total number of product recomputations by result",
		}, []string{"result"}),
	}
}

// Transition counts lifecycle transition.
func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

// Select counts product ids selected for reason.
func (m *Metrics) Select(reason string, n int) {
	if m == nil {
		return
	}
	m.Selected.WithLabelValues(reason).Add(float64(n))
}

// Fetch counts fetch attempt outcome.
func (m *Metrics) Fetch(outcome string) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(outcome).Inc()
}

// Aggregation counts recomputation result.
func (m *Metrics) Aggregation(result string) {
	if m == nil {
		return
	}
	m.Aggregations.WithLabelValues(result).Inc()
}

// Handler returns HTTP handler exposing metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
