// Package metrics exposes Prometheus instrumentation for network evaluations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for finished runs.
const (
	OutcomeConverged = "converged" // no value increased past the change threshold
	OutcomeBudget    = "budget"    // stopped by the round budget
)

// Recorder owns a private registry so tests and multiple servers do not
// collide on the global one. A nil Recorder is safe to use.
type Recorder struct {
	registry   *prometheus.Registry
	runs       *prometheus.CounterVec
	rounds     prometheus.Histogram
	arguments  prometheus.Histogram
	loadErrors prometheus.Counter
}

// NewRecorder creates a Recorder with its collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gris_runs_total",
				Help: "Completed network evaluations by outcome",
			},
			[]string{"outcome"},
		),
		rounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gris_run_rounds",
			Help:    "Rounds executed per evaluation",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
		}),
		arguments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gris_run_arguments",
			Help:    "Arguments per evaluated network",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gris_load_errors_total",
			Help: "Network descriptions rejected by the loader",
		}),
	}
	r.registry.MustRegister(r.runs, r.rounds, r.arguments, r.loadErrors)
	return r
}

// ObserveRun records a finished evaluation.
func (r *Recorder) ObserveRun(arguments, rounds int, converged bool) {
	if r == nil {
		return
	}
	outcome := OutcomeBudget
	if converged {
		outcome = OutcomeConverged
	}
	r.runs.WithLabelValues(outcome).Inc()
	r.rounds.Observe(float64(rounds))
	r.arguments.Observe(float64(arguments))
}

// ObserveLoadError records a rejected input.
func (r *Recorder) ObserveLoadError() {
	if r == nil {
		return
	}
	r.loadErrors.Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
