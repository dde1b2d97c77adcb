package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"slotting.dev/slotting/internal/engine"
)

const subsystem = "solver"

// PrometheusCollector implements engine.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	*NopMetrics

	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	nodes       *prometheus.CounterVec
	relaxations *prometheus.HistogramVec
	incumbent   prometheus.Gauge
	updates     prometheus.Counter
	queueDepth  prometheus.Gauge
	solves      *prometheus.CounterVec
	duration    prometheus.Histogram
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ engine.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector. A nil reg uses
// prometheus.DefaultRegisterer and an empty namespace uses "slotting".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "slotting"
	}

	return &PrometheusCollector{NopMetrics: NewNop(), reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.nodes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "nodes_total",
			Help:      "Subproblems processed by outcome (pruned,infeasible,integral,branched).",
		}, []string{"outcome"})

		p.relaxations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "relaxation_seconds",
			Help:      "Time spent bounding one subproblem, by method (lp,combinatorial).",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100us .. ~26s
		}, []string{"method"})

		p.incumbent = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "incumbent_objective",
			Help:      "Objective of the best assignment found so far.",
		})

		p.updates = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "incumbent_updates_total",
			Help:      "Times a strictly better assignment was found.",
		})

		p.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "open_subproblems",
			Help:      "Subproblems waiting in the search queue.",
		})

		p.solves = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "solves_total",
			Help:      "Finished solves by status (optimal,timed-out,infeasible,error).",
		}, []string{"status"})

		p.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of a solve in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms .. ~43m
		})

		p.reg.MustRegister(p.nodes)
		p.reg.MustRegister(p.relaxations)
		p.reg.MustRegister(p.incumbent)
		p.reg.MustRegister(p.updates)
		p.reg.MustRegister(p.queueDepth)
		p.reg.MustRegister(p.solves)
		p.reg.MustRegister(p.duration)
	})
}

// RecordNode counts a processed subproblem.
func (p *PrometheusCollector) RecordNode(outcome string) {
	p.ensureRegistered()
	p.nodes.WithLabelValues(outcome).Inc()
}

// RecordRelaxation observes the time spent bounding a subproblem.
func (p *PrometheusCollector) RecordRelaxation(seconds float64, exact bool) {
	p.ensureRegistered()
	method := "lp"
	if !exact {
		method = "combinatorial"
	}
	p.relaxations.WithLabelValues(method).Observe(seconds)
}

// RecordIncumbent sets the incumbent gauge.
func (p *PrometheusCollector) RecordIncumbent(objective float64) {
	p.ensureRegistered()
	p.incumbent.Set(objective)
	p.updates.Inc()
}

// RecordQueueDepth sets the open subproblem gauge.
func (p *PrometheusCollector) RecordQueueDepth(depth int) {
	p.ensureRegistered()
	p.queueDepth.Set(float64(depth))
}

// RecordSolve counts a finished solve and observes its duration.
func (p *PrometheusCollector) RecordSolve(status string, seconds float64) {
	p.ensureRegistered()
	p.solves.WithLabelValues(status).Inc()
	p.duration.Observe(seconds)
}

// WriteTextfile writes everything g gathers to path in the Prometheus text
// format, atomically, for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
