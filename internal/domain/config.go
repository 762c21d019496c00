package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Format is the output format for allocation and scoring results.
type Format string

// Supported output formats.
const (
	// FormatJSON writes pretty-printed JSON.
	FormatJSON Format = "json"

	// FormatXLSX writes an Excel workbook.
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a key to a Format. Unknown keys fall back to FormatJSON.
func ParseFormat(key string) Format {
	switch normalizeKey(key) {
	case "xlsx":
		return FormatXLSX
	default:
		return FormatJSON
	}
}

// Order is the sort order applied to scoring results.
type Order string

// Supported score orders.
const (
	OrderScoreAsc        Order = "score_asc"
	OrderScoreDesc       Order = "score_desc"
	OrderProjectNameAsc  Order = "project_name_asc"
	OrderProjectNameDesc Order = "project_name_desc"
)

// ParseOrder maps a key to an Order. Unknown keys fall back to
// OrderScoreDesc.
func ParseOrder(key string) Order {
	switch Order(normalizeKey(key)) {
	case OrderScoreAsc:
		return OrderScoreAsc
	case OrderProjectNameAsc:
		return OrderProjectNameAsc
	case OrderProjectNameDesc:
		return OrderProjectNameDesc
	default:
		return OrderScoreDesc
	}
}

// Mode selects how per-project contributions are reduced to one score.
type Mode string

// Supported scoring modes.
const (
	// ModeAverage divides the summed weights by the number of contributions.
	ModeAverage Mode = "average"

	// ModeTotal reports the summed weights.
	ModeTotal Mode = "total"
)

// ParseMode maps a key to a Mode. Unknown keys fall back to ModeAverage.
func ParseMode(key string) Mode {
	if Mode(normalizeKey(key)) == ModeTotal {
		return ModeTotal
	}
	return ModeAverage
}

// normalizeKey folds case, trims, and accepts '-' in place of '_'.
func normalizeKey(key string) string {
	return strings.ReplaceAll(cases.Fold().String(strings.TrimSpace(key)), "-", "_")
}

// AllocationConfig controls an allocation run.
type AllocationConfig struct {
	// JudgeAmountMin is the minimum number of distinct judges that must see
	// each project. Presentation allocation ignores it.
	JudgeAmountMin int `yaml:"judge_amount_min" json:"judge_amount_min" validate:"min=0"`

	// JudgeTime is the time each judge spends per project, in minutes.
	JudgeTime int `yaml:"judge_time" json:"judge_time" validate:"min=0,max=1440"`

	// Format is the output format of the run.
	Format Format `yaml:"format" json:"format" validate:"omitempty,oneof=json xlsx"`

	// OutputPath is where results are written. Empty means stdout.
	OutputPath string `yaml:"output_path,omitempty" json:"output_path,omitempty"`
}

// DefaultAllocationConfig returns an AllocationConfig requiring three
// judges per project, five minutes per visit, and JSON output.
func DefaultAllocationConfig() AllocationConfig {
	return AllocationConfig{
		JudgeAmountMin: 3,
		JudgeTime:      5,
		Format:         FormatJSON,
	}
}

// ScorerConfig controls a scoring run.
type ScorerConfig struct {
	// Format is the output format of the run.
	Format Format `yaml:"format" json:"format" validate:"omitempty,oneof=json xlsx"`

	// Order is the sort order of the resulting scores.
	Order Order `yaml:"order" json:"order" validate:"omitempty,oneof=score_asc score_desc project_name_asc project_name_desc"`

	// Mode selects average or total reduction.
	Mode Mode `yaml:"mode" json:"mode" validate:"omitempty,oneof=average total"`
}

// DefaultScorerConfig returns a ScorerConfig with JSON output, descending
// score order, and average mode.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Format: FormatJSON,
		Order:  OrderScoreDesc,
		Mode:   ModeAverage,
	}
}
