// Package middleware provides cross-cutting observability for allocation and
// scoring runs.
package middleware

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/judgers-dev/judgers/internal/ports"
)

// Metric names routed to dedicated collectors. Any other name falls through
// to the generic operation counter or state gauge.
const (
	MetricProjectsPerJudge  = "projects_per_judge"
	MetricProjectCoverage   = "project_coverage"
	MetricDecisionsDropped  = "decisions_dropped_total"
	MetricRecordsProcessed  = "records_processed_total"
	MetricOperationFailures = "operation_failures_total"
)

const unknownLabel = "unknown"

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. Every instance owns a private registry so that a CLI run can
// dump exactly its own metrics and tests never collide on registration.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	executionLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	recordsProcessed *prometheus.CounterVec
	decisionsDropped *prometheus.CounterVec
	projectsPerJudge *prometheus.HistogramVec
	projectCoverage  *prometheus.HistogramVec
	runState         *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance with all
// collectors registered in a fresh registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		registry: reg,
		executionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "judgers",
				Name:      "operation_duration_seconds",
				Help:      "Execution time of allocation, scoring, and output operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "command"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "judgers",
				Name:      "operations_total",
				Help:      "Total number of operations performed, by outcome.",
			},
			[]string{"operation", "status", "command"},
		),
		recordsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "judgers",
				Name:      "records_processed_total",
				Help:      "Judges, projects, and decisions read from input documents.",
			},
			[]string{"kind", "command"},
		),
		decisionsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "judgers",
				Name:      "decisions_dropped_total",
				Help:      "Rank entries that did not contribute to any score.",
			},
			[]string{"reason"},
		),
		projectsPerJudge: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "judgers",
				Name:      "projects_per_judge",
				Help:      "Number of projects assigned to each judge.",
				Buckets:   prometheus.LinearBuckets(0, 2, 16),
			},
			[]string{"strategy"},
		),
		projectCoverage: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "judgers",
				Name:      "project_coverage",
				Help:      "Number of judges assigned to each project.",
				Buckets:   prometheus.LinearBuckets(0, 1, 12),
			},
			[]string{"strategy"},
		),
		runState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "judgers",
				Name:      "run_state",
				Help:      "Point-in-time values describing the last run.",
			},
			[]string{"metric", "command"},
		),
	}
}

// WriteToFile writes all gathered metrics to path in the text exposition
// format, suitable for the node exporter textfile collector.
func (pm *PrometheusMetrics) WriteToFile(path string) error {
	if err := prometheus.WriteToTextfile(path, pm.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.executionLatency.WithLabelValues(operation, label(labels, "command")).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	command := label(labels, "command")

	switch metric {
	case MetricRecordsProcessed:
		pm.recordsProcessed.WithLabelValues(label(labels, "kind"), command).Add(value)
	case MetricDecisionsDropped:
		pm.decisionsDropped.WithLabelValues(label(labels, "reason")).Add(value)
	case MetricOperationFailures:
		pm.operationCounter.WithLabelValues(label(labels, "operation"), "error", command).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, "success", command).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.runState.WithLabelValues(metric, label(labels, "command")).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram. Unrecognized metrics are treated as
// latencies in seconds.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricProjectsPerJudge:
		pm.projectsPerJudge.WithLabelValues(label(labels, "strategy")).Observe(value)
	case MetricProjectCoverage:
		pm.projectCoverage.WithLabelValues(label(labels, "strategy")).Observe(value)
	default:
		pm.executionLatency.WithLabelValues(metric, label(labels, "command")).Observe(value)
	}
}

// label returns labels[key], or "unknown" when it is missing or empty.
func label(labels map[string]string, key string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return unknownLabel
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
