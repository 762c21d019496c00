package scoring

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
)

var _ ports.Scorer = (*StackRankScorer)(nil)

var validate = validator.New()

// Report describes decision entries that did not contribute to any emitted
// score. Ranks without a weight and identifiers that match no project are
// dropped silently by the scorer; the report lets callers surface them.
type Report struct {
	// UnmappedRanks counts entries whose rank has no weight.
	UnmappedRanks int

	// UnknownProjectEntries counts entries whose identifier matches neither
	// a project id nor a project name.
	UnknownProjectEntries int

	// UnknownProjects lists those identifiers once each, in first-seen order.
	UnknownProjects []string
}

// StackRankScorer scores projects from judges' stack-rank decisions.
// Each (project, rank) pair contributes the weight mapped to its rank.
type StackRankScorer struct {
	config    domain.ScorerConfig
	decisions []domain.StackRankDecision
	projects  []domain.Project
	weights   domain.RankWeights
}

// NewStackRankScorer creates a StackRankScorer.
func NewStackRankScorer(
	config domain.ScorerConfig,
	decisions []domain.StackRankDecision,
	projects []domain.Project,
	weights domain.RankWeights,
) *StackRankScorer {
	return &StackRankScorer{
		config:    config,
		decisions: decisions,
		projects:  projects,
		weights:   weights,
	}
}

// Score implements ports.Scorer.
func (s *StackRankScorer) Score() (domain.Scores, error) {
	scores, _, err := s.ScoreWithReport()
	return scores, err
}

// ScoreWithReport scores the decisions and also reports the entries that
// were dropped.
//
// It fails with ErrNoRankWeights when no weights are configured,
// ErrNoProjects when the project list is empty, and ErrInvalidRankWeight
// when a weight is NaN or infinite.
func (s *StackRankScorer) ScoreWithReport() (domain.Scores, Report, error) {
	if len(s.weights) == 0 {
		return nil, Report{}, domain.ErrNoRankWeights
	}
	if len(s.projects) == 0 {
		return nil, Report{}, domain.ErrNoProjects
	}
	if err := s.weights.Validate(); err != nil {
		return nil, Report{}, err
	}
	if err := validate.Struct(s.config); err != nil {
		return nil, Report{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	resolve := newResolver(s.projects)
	table := NewScoreTable()
	var report Report
	unknown := make(map[string]struct{})

	for _, decision := range s.decisions {
		for _, entry := range decision.Ranks {
			weight, ok := s.weights[entry.Rank]
			if !ok {
				report.UnmappedRanks++
				continue
			}
			key, found := resolve(entry.Project)
			if !found {
				report.UnknownProjectEntries++
				if _, dup := unknown[key]; !dup {
					unknown[key] = struct{}{}
					report.UnknownProjects = append(report.UnknownProjects, key)
				}
			}
			table.Add(key, weight)
		}
	}

	scores := table.ToScores(s.projects, s.config)
	SortScores(scores, s.config.Order)
	return scores, report, nil
}

// newResolver maps a decision identifier to a project id, preferring an id
// match over a name match. Unresolved identifiers are returned unchanged.
func newResolver(projects []domain.Project) func(string) (string, bool) {
	byName := make(map[string]string, len(projects))
	byID := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		byID[p.ID] = struct{}{}
		if _, ok := byName[p.Name]; !ok {
			byName[p.Name] = p.ID
		}
	}
	return func(ident string) (string, bool) {
		if _, ok := byID[ident]; ok {
			return ident, true
		}
		if id, ok := byName[ident]; ok {
			return id, true
		}
		return ident, false
	}
}

// SortScores orders scores in place with a stable sort. Ties keep their
// project input order. An empty order sorts by descending score.
func SortScores(scores domain.Scores, order domain.Order) {
	var cmpFn func(a, b domain.Score) int
	switch order {
	case domain.OrderScoreAsc:
		cmpFn = func(a, b domain.Score) int { return cmp.Compare(a.Score, b.Score) }
	case domain.OrderProjectNameAsc:
		cmpFn = func(a, b domain.Score) int { return cmp.Compare(a.ProjectName, b.ProjectName) }
	case domain.OrderProjectNameDesc:
		cmpFn = func(a, b domain.Score) int { return cmp.Compare(b.ProjectName, a.ProjectName) }
	default:
		cmpFn = func(a, b domain.Score) int { return cmp.Compare(b.Score, a.Score) }
	}
	slices.SortStableFunc(scores, cmpFn)
}
