package testutils

import (
	"maps"
	"sync"
	"time"

	"github.com/judgers-dev/judgers/internal/ports"
)

var _ ports.MetricsCollector = (*RecordingMetrics)(nil)

// MetricCall is one call made on a RecordingMetrics.
type MetricCall struct {
	Kind   string // "latency", "counter", "gauge" or "histogram"
	Name   string
	Value  float64
	Labels map[string]string
}

// RecordingMetrics implements ports.MetricsCollector by remembering every
// call. It is safe for concurrent use.
type RecordingMetrics struct {
	mu    sync.Mutex
	calls []MetricCall
}

// NewRecordingMetrics creates an empty RecordingMetrics.
func NewRecordingMetrics() *RecordingMetrics { return &RecordingMetrics{} }

func (r *RecordingMetrics) record(kind, name string, value float64, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, MetricCall{Kind: kind, Name: name, Value: value, Labels: maps.Clone(labels)})
}

// RecordLatency records the duration in seconds.
func (r *RecordingMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	r.record("latency", operation, duration.Seconds(), labels)
}

// RecordCounter implements ports.MetricsCollector.
func (r *RecordingMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	r.record("counter", metric, value, labels)
}

// RecordGauge implements ports.MetricsCollector.
func (r *RecordingMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	r.record("gauge", metric, value, labels)
}

// RecordHistogram implements ports.MetricsCollector.
func (r *RecordingMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	r.record("histogram", metric, value, labels)
}

// Calls returns a copy of every recorded call in order.
func (r *RecordingMetrics) Calls() []MetricCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MetricCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// Find returns the calls of the given kind and name.
func (r *RecordingMetrics) Find(kind, name string) []MetricCall {
	var out []MetricCall
	for _, c := range r.Calls() {
		if c.Kind == kind && c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Sum adds up the values of the calls of the given kind and name.
func (r *RecordingMetrics) Sum(kind, name string) float64 {
	var total float64
	for _, c := range r.Find(kind, name) {
		total += c.Value
	}
	return total
}
