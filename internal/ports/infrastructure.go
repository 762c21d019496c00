package ports

import (
	"context"
	"time"
)

// DocumentStore reads and writes whole documents by location.
// A location is a local path or any URL the implementation supports.
type DocumentStore interface {
	// Read returns the full contents of the document at location.
	Read(ctx context.Context, location string) ([]byte, error)

	// Write replaces the document at location with data, creating it if
	// needed.
	Write(ctx context.Context, location string, data []byte) error
}

// MetricsCollector defines the interface for collecting operational metrics
// about allocation and scoring runs.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, such as the number of
	// projects assigned to each judge.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
