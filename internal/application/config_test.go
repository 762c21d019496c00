package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
	"github.com/judgers-dev/judgers/internal/testutils"
)

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()
	require.NoError(t, ValidateConfig(&cfg))

	assert.Equal(t, "random", cfg.Allocation.Strategy)
	assert.Equal(t, 3, cfg.Allocation.JudgeAmountMin)
	assert.Equal(t, 5, cfg.Allocation.JudgeTime)
	assert.Equal(t, domain.FormatJSON, cfg.Allocation.Format)
	assert.Equal(t, domain.DefaultStartTime(), cfg.Allocation.Start())
	assert.Nil(t, cfg.Allocation.Seed)

	assert.Equal(t, domain.OrderScoreDesc, cfg.Scoring.Order)
	assert.Equal(t, domain.ModeAverage, cfg.Scoring.Mode)
	assert.Equal(t, domain.DefaultRankWeights(), cfg.Scoring.RankWeights)

	assert.Equal(t, "judging.xlsx", cfg.Spreadsheet.OutputPath)
	assert.Equal(t, 5, cfg.Spreadsheet.JudgeTime)
	assert.Equal(t, domain.DefaultStartTime(), cfg.Spreadsheet.Start())
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
allocation:
  strategy: sequence
  judge_amount_min: 2
  judge_time: 10
  format: xlsx
  output_path: out.xlsx
  start_time: "10:30"
  seed: 42
scoring:
  order: project_name_asc
  mode: total
  rank_weights:
    1: 5
    2: 1
spreadsheet:
  output_path: sheet.xlsx
  judge_time: 7
`)
	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, "sequence", cfg.Allocation.Strategy)
	assert.Equal(t, 2, cfg.Allocation.JudgeAmountMin)
	assert.Equal(t, 10, cfg.Allocation.JudgeTime)
	assert.Equal(t, domain.FormatXLSX, cfg.Allocation.Format)
	assert.Equal(t, "out.xlsx", cfg.Allocation.OutputPath)
	assert.Equal(t, domain.TimeOfDay{Hour: 10, Minute: 30}, cfg.Allocation.Start())
	require.NotNil(t, cfg.Allocation.Seed)
	assert.Equal(t, uint64(42), *cfg.Allocation.Seed)

	assert.Equal(t, domain.OrderProjectNameAsc, cfg.Scoring.Order)
	assert.Equal(t, domain.ModeTotal, cfg.Scoring.Mode)
	assert.Equal(t, domain.RankWeights{1: 5, 2: 1}, cfg.Scoring.RankWeights, "weights replace the defaults")

	assert.Equal(t, "sheet.xlsx", cfg.Spreadsheet.OutputPath)
	assert.Equal(t, 7, cfg.Spreadsheet.JudgeTime)
	assert.Equal(t, "09:00", cfg.Spreadsheet.StartTime, "unset values keep defaults")
	assert.Equal(t, domain.DefaultRankWeights(), cfg.Spreadsheet.RankWeights)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRunConfig(), *cfg)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{name: "unknown field", yaml: "allocation:\n  judges_per_project: 3\n"},
		{name: "unknown section", yaml: "scheduling:\n  slots: 3\n"},
		{name: "bad start time", yaml: "allocation:\n  start_time: \"25:00\"\n"},
		{name: "bad format", yaml: "allocation:\n  format: csv\n"},
		{name: "negative judge amount", yaml: "allocation:\n  judge_amount_min: -1\n"},
		{name: "judge time too long", yaml: "spreadsheet:\n  judge_time: 2000\n"},
		{name: "bad order", yaml: "scoring:\n  order: sideways\n"},
		{name: "empty output path", yaml: "spreadsheet:\n  output_path: \"\"\n"},
		{name: "rank zero", yaml: "scoring:\n  rank_weights:\n    0: 1\n", wantErr: domain.ErrInvalidRankWeight},
		{name: "empty weights", yaml: "spreadsheet:\n  rank_weights: {}\n", wantErr: domain.ErrNoRankWeights},
		{name: "malformed yaml", yaml: "allocation: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.Error(t, err)

			var cfgErr *ports.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "should be a ConfigError: %v", err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore(map[string]string{
		"judgers.yaml": "allocation:\n  strategy: presentation\n",
	})

	cfg, err := LoadConfig(ctx, store, "")
	require.NoError(t, err)
	assert.Equal(t, "random", cfg.Allocation.Strategy)

	cfg, err = LoadConfig(ctx, store, "judgers.yaml")
	require.NoError(t, err)
	assert.Equal(t, "presentation", cfg.Allocation.Strategy)

	_, err = LoadConfig(ctx, store, "missing.yaml")
	assert.ErrorIs(t, err, ports.ErrConfigNotFound)
	assert.ErrorIs(t, err, ports.ErrDocumentNotFound)
}

func TestNewConfigValidator(t *testing.T) {
	v, err := NewConfigValidator()
	require.NoError(t, err)

	err = v.Struct(SpreadsheetConfig{OutputPath: "x.xlsx", StartTime: "9:60"})
	require.Error(t, err)
	assert.Equal(t, []string{"StartTime"}, testutils.FailedFields(err))

	assert.NoError(t, v.Struct(SpreadsheetConfig{OutputPath: "x.xlsx", StartTime: "9:59"}))
}
