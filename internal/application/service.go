package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/judgers-dev/judgers/infrastructure/allocation"
	"github.com/judgers-dev/judgers/infrastructure/middleware"
	"github.com/judgers-dev/judgers/infrastructure/scoring"
	"github.com/judgers-dev/judgers/infrastructure/spreadsheet"
	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
)

// Default workbook locations used when xlsx output has no output path.
const (
	DefaultAllocationsWorkbook = "allocations.xlsx"
	DefaultScoresWorkbook      = "scores.xlsx"
)

// spreadsheetJudgeAmountMin is the coverage the spreadsheet command asks of
// its sequence allocation.
const spreadsheetJudgeAmountMin = 3

// Service runs the allocate, score, and spreadsheet operations end to end:
// loading documents, invoking the engines, and writing results.
// Use Service from the CLI or any other front end that needs the complete
// behavior; the engines in infrastructure/allocation and
// infrastructure/scoring remain usable on their own.
type Service struct {
	// store reads inputs and writes outputs.
	store ports.DocumentStore
	// loader decodes and validates input documents.
	loader *DocumentLoader
	// metrics receives run metrics. It may be nil.
	metrics ports.MetricsCollector
	// logger receives warnings and run summaries.
	logger *zap.Logger
	// stdout receives JSON output when no output path is set.
	stdout io.Writer
	// validate checks configuration structs.
	validate *validator.Validate
	// newRunID labels each run for logs and traces.
	newRunID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics sets the metrics collector.
func WithMetrics(m ports.MetricsCollector) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStdout redirects output that would go to standard output.
func WithStdout(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.stdout = w
		}
	}
}

// NewService creates a Service over store.
// NewService returns an error if the document schemas or the configuration
// validator cannot be initialized.
func NewService(store ports.DocumentStore, opts ...Option) (*Service, error) {
	loader, err := NewDocumentLoader(store)
	if err != nil {
		return nil, err
	}
	v, err := NewConfigValidator()
	if err != nil {
		return nil, err
	}

	s := &Service{
		store:    store,
		loader:   loader,
		logger:   zap.NewNop(),
		stdout:   os.Stdout,
		validate: v,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Loader returns the document loader used by the service.
func (s *Service) Loader() *DocumentLoader { return s.loader }

// AllocationRequest describes one allocation run.
type AllocationRequest struct {
	// Strategy is the allocator key.
	Strategy string
	// Config carries coverage, timing, and output settings.
	Config domain.AllocationConfig
	// StartTime schedules the first visit in xlsx output.
	StartTime domain.TimeOfDay
	// Seed makes random allocation reproducible when set.
	Seed *uint64
}

// AllocationResult is the outcome of Allocate.
type AllocationResult struct {
	RunID       string
	Strategy    allocation.Strategy
	Allocations domain.Allocations
	// Location is where output was written, or empty for stdout.
	Location string
}

// Allocate assigns input's judges to its projects and writes the result in
// the requested format.
// Allocate returns the validation, allocation, or output error that stopped
// the run; no output is written on error.
func (s *Service) Allocate(ctx context.Context, input domain.Input, req AllocationRequest) (*AllocationResult, error) {
	runID := s.newRunID()
	obs := middleware.NewRunObserver(s.metrics, "allocate", runID)
	log := s.logger.With(zap.String("run_id", runID), zap.String("command", "allocate"))

	if err := s.validate.Struct(req.Config); err != nil {
		return nil, ports.NewConfigError("allocation", fmt.Errorf("configuration validation failed: %w", err))
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	obs.RecordInput(ctx, input)

	strategy := s.resolveStrategy(log, req.Strategy)
	var opts []allocation.Option
	if req.Seed != nil {
		opts = append(opts, allocation.WithRandSource(allocation.NewSeededSource(*req.Seed)))
	}

	var allocs domain.Allocations
	err := obs.Observe(ctx, "allocate", func(ctx context.Context) error {
		var err error
		allocs, err = allocation.New(strategy, req.Config, input.Judges, input.Projects, opts...).Allocate()
		if err != nil {
			return fmt.Errorf("allocation failed: %w", err)
		}
		obs.RecordAllocations(ctx, strategy.String(), allocs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var location string
	err = obs.Observe(ctx, "write_output", func(ctx context.Context) error {
		var err error
		location, err = s.writeAllocations(ctx, allocs, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("allocation complete",
		zap.Stringer("strategy", strategy),
		zap.Int("judges", len(input.Judges)),
		zap.Int("projects", len(input.Projects)),
		zap.String("output", displayLocation(location)),
	)
	return &AllocationResult{RunID: runID, Strategy: strategy, Allocations: allocs, Location: location}, nil
}

// resolveStrategy parses key, warning with a suggestion when it falls back
// to the random strategy.
func (s *Service) resolveStrategy(log *zap.Logger, key string) allocation.Strategy {
	strategy, ok := allocation.ParseStrategy(key)
	if ok || key == "" {
		return strategy
	}

	keys := make([]string, 0, len(allocation.Strategies()))
	for _, st := range allocation.Strategies() {
		keys = append(keys, st.String())
	}
	fields := []zap.Field{zap.String("allocator", key), zap.Stringer("using", strategy)}
	if hint, found := Suggest(key, keys); found {
		fields = append(fields, zap.String("did_you_mean", hint))
	}
	log.Warn("unknown allocator, falling back to random", fields...)
	return strategy
}

func (s *Service) writeAllocations(ctx context.Context, allocs domain.Allocations, req AllocationRequest) (string, error) {
	if req.Config.Format != domain.FormatXLSX {
		return req.Config.OutputPath, s.writeJSON(ctx, req.Config.OutputPath, allocs)
	}

	location := req.Config.OutputPath
	if location == "" {
		location = DefaultAllocationsWorkbook
	}
	data, err := spreadsheet.AllocationsWorkbook(allocs, spreadsheet.Config{
		JudgeTime: req.Config.JudgeTime,
		StartTime: req.StartTime,
	})
	if err != nil {
		return "", err
	}
	return location, s.store.Write(ctx, location, data)
}

// ScoreRequest describes one scoring run.
type ScoreRequest struct {
	// InputPath locates the judges-and-projects document.
	InputPath string
	// DecisionPaths locate one or more decision documents.
	DecisionPaths []string
	// WeightsPath, when set, locates a rank weight document and overrides
	// Weights.
	WeightsPath string
	// Weights maps ranks to points when WeightsPath is empty.
	Weights domain.RankWeights
	// Config carries format, order, and mode.
	Config domain.ScorerConfig
	// OutputPath is where scores are written. Empty means stdout for JSON.
	OutputPath string
}

// ScoreResult is the outcome of Score.
type ScoreResult struct {
	RunID    string
	Scores   domain.Scores
	Report   scoring.Report
	Location string
}

// Score loads projects, decisions, and weights, scores the decisions, and
// writes the ordered scores.
// Decision entries naming unknown projects or unmapped ranks do not fail
// the run; they are logged and returned in the report.
func (s *Service) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	runID := s.newRunID()
	obs := middleware.NewRunObserver(s.metrics, "score", runID)
	log := s.logger.With(zap.String("run_id", runID), zap.String("command", "score"))

	if err := s.validate.Struct(req.Config); err != nil {
		return nil, ports.NewConfigError("scoring", fmt.Errorf("configuration validation failed: %w", err))
	}

	var (
		input     domain.Input
		decisions []domain.StackRankDecision
		weights   = req.Weights
	)
	err := obs.Observe(ctx, "load", func(ctx context.Context) error {
		var err error
		if input, err = s.loader.LoadInput(ctx, req.InputPath); err != nil {
			return fmt.Errorf("failed to load input: %w", err)
		}
		if decisions, err = s.loader.LoadDecisions(ctx, req.DecisionPaths...); err != nil {
			return fmt.Errorf("failed to load decisions: %w", err)
		}
		if req.WeightsPath != "" {
			if weights, err = s.loader.LoadRankWeights(ctx, req.WeightsPath); err != nil {
				return fmt.Errorf("failed to load rank weights: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if weights == nil {
		weights = domain.DefaultRankWeights()
	}
	obs.RecordInput(ctx, input)
	obs.RecordDecisions(ctx, decisions)

	var (
		scores domain.Scores
		report scoring.Report
	)
	err = obs.Observe(ctx, "score", func(ctx context.Context) error {
		var err error
		scores, report, err = scoring.NewStackRankScorer(req.Config, decisions, input.Projects, weights).ScoreWithReport()
		if err != nil {
			return fmt.Errorf("scoring failed: %w", err)
		}
		obs.RecordScores(ctx, scores)
		obs.RecordDropped(ctx, report.UnmappedRanks, report.UnknownProjectEntries, report.UnknownProjects)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logReport(log, report, input.Projects)

	var location string
	err = obs.Observe(ctx, "write_output", func(ctx context.Context) error {
		var err error
		location, err = s.writeScores(ctx, scores, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("scoring complete",
		zap.Int("decisions", len(decisions)),
		zap.Int("scored_projects", len(scores)),
		zap.String("output", displayLocation(location)),
	)
	return &ScoreResult{RunID: runID, Scores: scores, Report: report, Location: location}, nil
}

// logReport warns about decision entries that did not count.
func (s *Service) logReport(log *zap.Logger, report scoring.Report, projects []domain.Project) {
	if report.UnmappedRanks > 0 {
		log.Warn("ignored ranks without a weight", zap.Int("entries", report.UnmappedRanks))
	}
	if len(report.UnknownProjects) == 0 {
		return
	}
	known := make([]string, 0, 2*len(projects))
	for _, p := range projects {
		known = append(known, p.ID, p.Name)
	}
	for _, ident := range report.UnknownProjects {
		fields := []zap.Field{zap.String("project", ident)}
		if hint, found := Suggest(ident, known); found {
			fields = append(fields, zap.String("did_you_mean", hint))
		}
		log.Warn("decision references unknown project", fields...)
	}
}

func (s *Service) writeScores(ctx context.Context, scores domain.Scores, req ScoreRequest) (string, error) {
	if req.Config.Format != domain.FormatXLSX {
		return req.OutputPath, s.writeJSON(ctx, req.OutputPath, scores)
	}

	location := req.OutputPath
	if location == "" {
		location = DefaultScoresWorkbook
	}
	data, err := spreadsheet.ScoresWorkbook(scores)
	if err != nil {
		return "", err
	}
	return location, s.store.Write(ctx, location, data)
}

// SpreadsheetResult is the outcome of Spreadsheet.
type SpreadsheetResult struct {
	RunID       string
	Allocations domain.Allocations
	Location    string
}

// Spreadsheet builds the judging workbook: a sequence allocation asking for
// three judges per project, scheduled with the configured judge time, plus
// the score configuration and results sheets.
func (s *Service) Spreadsheet(ctx context.Context, input domain.Input, cfg SpreadsheetConfig) (*SpreadsheetResult, error) {
	runID := s.newRunID()
	obs := middleware.NewRunObserver(s.metrics, "spreadsheet", runID)
	log := s.logger.With(zap.String("run_id", runID), zap.String("command", "spreadsheet"))

	if err := s.validate.Struct(cfg); err != nil {
		return nil, ports.NewConfigError("spreadsheet", fmt.Errorf("configuration validation failed: %w", err))
	}
	weights := cfg.RankWeights
	if weights == nil {
		weights = domain.DefaultRankWeights()
	}
	if err := validateRankWeights(weights); err != nil {
		return nil, ports.NewConfigError("spreadsheet.rank_weights", err)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	obs.RecordInput(ctx, input)

	allocCfg := domain.AllocationConfig{
		JudgeAmountMin: spreadsheetJudgeAmountMin,
		JudgeTime:      cfg.JudgeTime,
		Format:         domain.FormatXLSX,
		OutputPath:     cfg.OutputPath,
	}

	var allocs domain.Allocations
	err := obs.Observe(ctx, "allocate", func(ctx context.Context) error {
		var err error
		allocs, err = allocation.New(allocation.SequenceFair, allocCfg, input.Judges, input.Projects).Allocate()
		if err != nil {
			return fmt.Errorf("allocation failed: %w", err)
		}
		obs.RecordAllocations(ctx, allocation.SequenceFair.String(), allocs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = obs.Observe(ctx, "write_output", func(ctx context.Context) error {
		data, err := spreadsheet.AllocationsWorkbook(allocs, spreadsheet.Config{
			JudgeTime:   cfg.JudgeTime,
			StartTime:   cfg.Start(),
			RankWeights: weights,
		})
		if err != nil {
			return err
		}
		return s.store.Write(ctx, cfg.OutputPath, data)
	})
	if err != nil {
		return nil, err
	}

	log.Info("spreadsheet written",
		zap.Int("judges", len(input.Judges)),
		zap.Int("projects", len(input.Projects)),
		zap.String("output", cfg.OutputPath),
	)
	return &SpreadsheetResult{RunID: runID, Allocations: allocs, Location: cfg.OutputPath}, nil
}

// writeJSON writes v as indented JSON to location, or to stdout when
// location is empty.
func (s *Service) writeJSON(ctx context.Context, location string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')

	if location == "" {
		if _, err := s.stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	return s.store.Write(ctx, location, data)
}

func displayLocation(location string) string {
	if location == "" {
		return "stdout"
	}
	return location
}
