// Package metrics exposes Prometheus collectors for simulations, scorings
// and batch rescoring.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the adaptest collectors. A nil *Metrics is a valid no-op
// recorder.
type Metrics struct {
	simulations     *prometheus.CounterVec
	simulationSteps prometheus.Histogram
	scorings        *prometheus.CounterVec
	scores          prometheus.Histogram
	rescoreDuration prometheus.Histogram
	rescoreFailures prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		simulations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adaptest_simulations_total",
				Help: "Finished simulated assessments by end reason.",
			},
			[]string{"end_reason"},
		),
		simulationSteps: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adaptest_simulation_steps",
				Help:    "Number of answers in finished simulated assessments.",
				Buckets: prometheus.LinearBuckets(0, 8, 9),
			},
		),
		scorings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adaptest_scorings_total",
				Help: "Scored assessments by status.",
			},
			[]string{"status"},
		),
		scores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adaptest_score",
				Help:    "Distribution of certification scores.",
				Buckets: prometheus.LinearBuckets(0, 128, 8),
			},
		),
		rescoreDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adaptest_rescore_duration_seconds",
				Help:    "Time spent rescoring one assessment.",
				Buckets: prometheus.DefBuckets,
			},
		),
		rescoreFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "adaptest_rescore_failures_total",
				Help: "Assessments that could not be rescored.",
			},
		),
	}
}

// ObserveSimulation records a finished simulated run.
func (m *Metrics) ObserveSimulation(endReason string, steps int) {
	if m == nil {
		return
	}
	m.simulations.WithLabelValues(endReason).Inc()
	m.simulationSteps.Observe(float64(steps))
}

// ObserveScoring records one scoring outcome.
func (m *Metrics) ObserveScoring(status string, score int) {
	if m == nil {
		return
	}
	m.scorings.WithLabelValues(status).Inc()
	m.scores.Observe(float64(score))
}

// ObserveRescore records the duration of one rescoring attempt.
func (m *Metrics) ObserveRescore(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.rescoreDuration.Observe(d.Seconds())
	if err != nil {
		m.rescoreFailures.Inc()
	}
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	return prometheus.WriteToTextfile(path, g)
}
