// Package application wires document loading, allocation, scoring, and
// output rendering into the operations exposed by the judgers CLI.
package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
)

// RunConfig is the complete run configuration file. Every section is
// optional; missing values take the defaults of DefaultRunConfig.
type RunConfig struct {
	// Allocation configures the allocate command.
	Allocation AllocationSection `yaml:"allocation"`
	// Scoring configures the score command.
	Scoring ScoringSection `yaml:"scoring"`
	// Spreadsheet configures the spreadsheet command.
	Spreadsheet SpreadsheetConfig `yaml:"spreadsheet"`
}

// AllocationSection extends domain.AllocationConfig with the choices the
// CLI makes around an allocation run.
type AllocationSection struct {
	domain.AllocationConfig `yaml:",inline"`

	// Strategy is the allocator key. Unrecognized keys fall back to the
	// random strategy with a warning.
	Strategy string `yaml:"strategy"`
	// StartTime is the "HH:MM" time the first visit is scheduled, used by
	// xlsx output.
	StartTime string `yaml:"start_time" validate:"omitempty,timeofday"`
	// Seed makes random allocation reproducible when set.
	Seed *uint64 `yaml:"seed,omitempty"`
}

// ScoringSection extends domain.ScorerConfig with output and weight
// settings.
type ScoringSection struct {
	domain.ScorerConfig `yaml:",inline"`

	// OutputPath is where scores are written. Empty means stdout.
	OutputPath string `yaml:"output_path,omitempty"`
	// RankWeights maps rank positions to points. Ranks start at 1.
	RankWeights domain.RankWeights `yaml:"rank_weights"`
}

// SpreadsheetConfig controls judging workbook generation.
type SpreadsheetConfig struct {
	// OutputPath is where the workbook is written.
	OutputPath string `yaml:"output_path" validate:"required"`
	// JudgeTime is the time each judge spends per project, in minutes.
	JudgeTime int `yaml:"judge_time" validate:"min=0,max=1440"`
	// StartTime is the "HH:MM" time judging begins.
	StartTime string `yaml:"start_time" validate:"omitempty,timeofday"`
	// RankWeights fills the score configuration sheet.
	RankWeights domain.RankWeights `yaml:"rank_weights"`
}

// Start returns the parsed start time, or 09:00 when unset.
func (c SpreadsheetConfig) Start() domain.TimeOfDay { return startTime(c.StartTime) }

// Start returns the parsed start time, or 09:00 when unset.
func (s AllocationSection) Start() domain.TimeOfDay { return startTime(s.StartTime) }

func startTime(s string) domain.TimeOfDay {
	if s == "" {
		return domain.DefaultStartTime()
	}
	t, err := domain.ParseTimeOfDay(s)
	if err != nil {
		return domain.DefaultStartTime()
	}
	return t
}

// DefaultSpreadsheetConfig returns the workbook settings used when no
// configuration file is given.
func DefaultSpreadsheetConfig() SpreadsheetConfig {
	return SpreadsheetConfig{
		OutputPath:  "judging.xlsx",
		JudgeTime:   domain.DefaultAllocationConfig().JudgeTime,
		StartTime:   domain.DefaultStartTime().Format(),
		RankWeights: domain.DefaultRankWeights(),
	}
}

// DefaultRunConfig returns the configuration used when no file is given.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Allocation: AllocationSection{
			AllocationConfig: domain.DefaultAllocationConfig(),
			Strategy:         "random",
			StartTime:        domain.DefaultStartTime().Format(),
		},
		Scoring: ScoringSection{
			ScorerConfig: domain.DefaultScorerConfig(),
			RankWeights:  domain.DefaultRankWeights(),
		},
		Spreadsheet: DefaultSpreadsheetConfig(),
	}
}

// NewConfigValidator creates a validator with the custom tags used by the
// configuration structs registered.
// NewConfigValidator returns an error if tag registration fails.
func NewConfigValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := v.RegisterValidation("timeofday", validateTimeOfDay); err != nil {
		return nil, fmt.Errorf("failed to register timeofday validator: %w", err)
	}
	return v, nil
}

// validateTimeOfDay is a validator.Func accepting "HH:MM" strings.
func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := domain.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

// ParseConfig decodes a YAML run configuration over the defaults and
// validates it.
// ParseConfig uses strict decoding, so unknown keys are rejected rather than
// silently ignored. Rank weight maps replace the default weights instead of
// merging into them.
// ParseConfig returns a *ports.ConfigError if decoding or validation fails.
func ParseConfig(data []byte) (*RunConfig, error) {
	cfg := DefaultRunConfig()
	cfg.Scoring.RankWeights = nil
	cfg.Spreadsheet.RankWeights = nil

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode - fail on unknown fields.
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ports.NewConfigError("decode", fmt.Errorf("YAML decode failed: %w", err))
	}

	if cfg.Scoring.RankWeights == nil {
		cfg.Scoring.RankWeights = domain.DefaultRankWeights()
	}
	if cfg.Spreadsheet.RankWeights == nil {
		cfg.Spreadsheet.RankWeights = domain.DefaultRankWeights()
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig runs struct validation and the rank weight checks that
// struct tags cannot express.
// ValidateConfig returns a *ports.ConfigError naming the failing section.
func ValidateConfig(cfg *RunConfig) error {
	v, err := NewConfigValidator()
	if err != nil {
		return err
	}
	if err := v.Struct(cfg); err != nil {
		return ports.NewConfigError("struct", fmt.Errorf("struct validation failed: %w", err))
	}
	if err := validateRankWeights(cfg.Scoring.RankWeights); err != nil {
		return ports.NewConfigError("scoring.rank_weights", err)
	}
	if err := validateRankWeights(cfg.Spreadsheet.RankWeights); err != nil {
		return ports.NewConfigError("spreadsheet.rank_weights", err)
	}
	return nil
}

// validateRankWeights checks the weights themselves and that every rank
// position starts at 1.
func validateRankWeights(w domain.RankWeights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	for rank := range w {
		if rank < 1 {
			return fmt.Errorf("%w: rank=%d, ranks start at 1", domain.ErrInvalidRankWeight, rank)
		}
	}
	return nil
}

// LoadConfig reads and parses the run configuration at location.
// An empty location yields DefaultRunConfig.
// LoadConfig returns an error wrapping ports.ErrConfigNotFound when the
// document does not exist.
func LoadConfig(ctx context.Context, store ports.DocumentStore, location string) (*RunConfig, error) {
	if location == "" {
		cfg := DefaultRunConfig()
		return &cfg, nil
	}

	data, err := store.Read(ctx, location)
	if err != nil {
		if errors.Is(err, ports.ErrDocumentNotFound) {
			return nil, ports.NewConfigError(location, fmt.Errorf("%w: %w", ports.ErrConfigNotFound, err))
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}
