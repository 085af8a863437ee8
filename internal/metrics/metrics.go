// Package metrics exposes Prometheus instrumentation for the intake pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/firstpriority/website/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "intake"

// Outcome label values for SubmissionsTotal.
const (
	OutcomeDelivered = "delivered"
	OutcomeStored    = "stored"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

// Metrics holds the intake counters and histograms.
type Metrics struct {
	SubmissionsTotal *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	StoreDuration    prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the intake metrics on a fresh registry, together with the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the intake metrics on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := &Metrics{
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Form submissions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent on a single email delivery attempt.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "delivered"}),
		StoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_duration_seconds",
			Help:      "Time spent appending to a fallback file.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
		gatherer: g,
	}
	reg.MustRegister(m.SubmissionsTotal, m.DispatchDuration, m.StoreDuration)
	return m
}

// ObserveOutcome counts one finished submission.
func (m *Metrics) ObserveOutcome(kind model.Kind, outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveDispatch records the duration of one delivery attempt.
func (m *Metrics) ObserveDispatch(kind model.Kind, delivered bool, d time.Duration) {
	if m == nil {
		return
	}
	label := "false"
	if delivered {
		label = "true"
	}
	m.DispatchDuration.WithLabelValues(string(kind), label).Observe(d.Seconds())
}

// ObserveStore records the duration of one fallback append.
func (m *Metrics) ObserveStore(d time.Duration) {
	if m == nil {
		return
	}
	m.StoreDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
