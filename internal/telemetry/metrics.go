// Package telemetry provides Prometheus metrics for search runs.
//
// Metrics live on a private registry so several engines (and tests) can
// coexist in one process. A nil *Metrics is valid and records nothing.
package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "cantus"

// Metrics collects search counters and gauges.
type Metrics struct {
	runsStarted  *prometheus.CounterVec
	runsFinished *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec

	expansions *prometheus.CounterVec
	duplicates prometheus.Counter
	frontier   prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics registers the search metrics under namespace on a new
// registry. An empty namespace uses DefaultNamespace.
func NewMetrics(namespace string) (*Metrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		runsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_started_total",
				Help:      "Total number of search runs started",
			},
			[]string{"policy"},
		),
		runsFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_finished_total",
				Help:      "Total number of search runs finished, by status",
			},
			[]string{"policy", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Search run duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"policy"},
		),
		expansions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expansions_total",
				Help:      "Total number of states expanded, by outcome",
			},
			[]string{"outcome"},
		),
		duplicates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "duplicate_lines_total",
				Help:      "Completed lines derived more than once",
			},
		),
		frontier: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "frontier_size",
				Help:      "Number of states pending across every agenda of the current run",
			},
		),
	}

	collectors := []prometheus.Collector{
		m.runsStarted,
		m.runsFinished,
		m.runDuration,
		m.expansions,
		m.duplicates,
		m.frontier,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// RunStarted counts a started run.
func (m *Metrics) RunStarted(policy string) {
	if m == nil {
		return
	}
	m.runsStarted.WithLabelValues(policy).Inc()
}

// RunFinished counts a finished run and records its duration.
func (m *Metrics) RunFinished(policy, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.runsFinished.WithLabelValues(policy, status).Inc()
	m.runDuration.WithLabelValues(policy).Observe(d.Seconds())
}

// Expanded counts one expansion with the given outcome.
func (m *Metrics) Expanded(outcome string) {
	if m == nil {
		return
	}
	m.expansions.WithLabelValues(outcome).Inc()
}

// Duplicate counts a repeated derivation.
func (m *Metrics) Duplicate() {
	if m == nil {
		return
	}
	m.duplicates.Inc()
}

// FrontierSize sets the frontier gauge to the run-wide pending count.
func (m *Metrics) FrontierSize(n int) {
	if m == nil {
		return
	}
	m.frontier.Set(float64(n))
}

// Registry returns the private registry, nil for a nil Metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteText writes every metric family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
