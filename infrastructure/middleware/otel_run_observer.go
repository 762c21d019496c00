package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
)

const tracerName = "github.com/judgers-dev/judgers"

// RunObserver wraps each step of a CLI run in an OpenTelemetry span and
// reports its latency and outcome to a MetricsCollector.
type RunObserver struct {
	metrics ports.MetricsCollector
	command string
	runID   string
	tracer  trace.Tracer
	now     func() time.Time
}

// NewRunObserver creates a RunObserver for one invocation of command.
// A nil metrics collector disables metric reporting; spans are still
// created on the global tracer provider.
func NewRunObserver(metrics ports.MetricsCollector, command, runID string) *RunObserver {
	return &RunObserver{
		metrics: metrics,
		command: command,
		runID:   runID,
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
}

// Observe runs fn inside a span named after operation. The span status and
// the operation counter reflect the error fn returns, which is passed
// through unchanged.
func (o *RunObserver) Observe(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, o.command+"."+operation, trace.WithAttributes(
		attribute.String("judgers.command", o.command),
		attribute.String("judgers.run_id", o.runID),
	))
	defer span.End()

	start := o.now()
	err := fn(ctx)
	elapsed := o.now().Sub(start)

	labels := o.labels()
	if o.metrics != nil {
		o.metrics.RecordLatency(operation, elapsed, labels)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var notEnough *domain.NotEnoughJudgesError
		if errors.As(err, &notEnough) {
			span.AddEvent("allocation.not_enough_judges", trace.WithAttributes(
				attribute.Int("judges", notEnough.Judges),
				attribute.Int("projects", notEnough.Projects),
				attribute.Int("judge_amount_min", notEnough.JudgeAmountMin),
			))
		}
		if o.metrics != nil {
			labels["operation"] = operation
			o.metrics.RecordCounter(MetricOperationFailures, 1, labels)
		}
		return err
	}

	if o.metrics != nil {
		o.metrics.RecordCounter(operation, 1, labels)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// RecordInput reports the size of a loaded input document.
func (o *RunObserver) RecordInput(ctx context.Context, in domain.Input) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("judgers.judges", len(in.Judges)),
		attribute.Int("judgers.projects", len(in.Projects)),
	)
	if o.metrics == nil {
		return
	}
	o.recordKind("judges", len(in.Judges))
	o.recordKind("projects", len(in.Projects))
}

// RecordDecisions reports how many stack-rank decisions were loaded.
func (o *RunObserver) RecordDecisions(ctx context.Context, decisions []domain.StackRankDecision) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("judgers.decisions", len(decisions)))
	if o.metrics != nil {
		o.recordKind("decisions", len(decisions))
	}
}

// RecordAllocations reports the distribution of an allocation: projects per
// judge, judges per project, and summary gauges.
func (o *RunObserver) RecordAllocations(ctx context.Context, strategy string, allocs domain.Allocations) {
	coverage := allocs.CoverageByProjectID()
	trace.SpanFromContext(ctx).AddEvent("allocation.completed", trace.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.Int("judges", len(allocs)),
		attribute.Int("projects_covered", len(coverage)),
	))
	if o.metrics == nil {
		return
	}

	byStrategy := map[string]string{"strategy": strategy}
	assigned := 0
	for _, a := range allocs {
		assigned += len(a.Projects)
		o.metrics.RecordHistogram(MetricProjectsPerJudge, float64(len(a.Projects)), byStrategy)
	}
	for _, n := range coverage {
		o.metrics.RecordHistogram(MetricProjectCoverage, float64(n), byStrategy)
	}
	o.metrics.RecordGauge("assignments", float64(assigned), o.labels())
	o.metrics.RecordGauge("projects_covered", float64(len(coverage)), o.labels())
}

// RecordDropped reports rank entries that did not contribute to any score.
// Both counts are in entries; unknownProjects names the distinct identifiers.
func (o *RunObserver) RecordDropped(ctx context.Context, unmappedRanks, unknownEntries int, unknownProjects []string) {
	if unmappedRanks == 0 && unknownEntries == 0 {
		return
	}
	trace.SpanFromContext(ctx).AddEvent("scoring.dropped_entries", trace.WithAttributes(
		attribute.Int("unmapped_ranks", unmappedRanks),
		attribute.Int("unknown_project_entries", unknownEntries),
		attribute.StringSlice("unknown_projects", unknownProjects),
	))
	if o.metrics == nil {
		return
	}
	if unmappedRanks > 0 {
		o.metrics.RecordCounter(MetricDecisionsDropped, float64(unmappedRanks), map[string]string{"reason": "unmapped_rank"})
	}
	if unknownEntries > 0 {
		o.metrics.RecordCounter(MetricDecisionsDropped, float64(unknownEntries), map[string]string{"reason": "unknown_project"})
	}
}

// RecordScores reports the number of scored projects and the top score.
func (o *RunObserver) RecordScores(ctx context.Context, scores domain.Scores) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("judgers.scores", len(scores)))
	if o.metrics == nil {
		return
	}
	o.metrics.RecordGauge("scored_projects", float64(len(scores)), o.labels())
	if len(scores) > 0 {
		top := scores[0].Score
		for _, s := range scores[1:] {
			top = max(top, s.Score)
		}
		o.metrics.RecordGauge("top_score", top, o.labels())
	}
}

func (o *RunObserver) recordKind(kind string, n int) {
	labels := o.labels()
	labels["kind"] = kind
	o.metrics.RecordCounter(MetricRecordsProcessed, float64(n), labels)
}

func (o *RunObserver) labels() map[string]string {
	return map[string]string{"command": o.command}
}
