// Package scoring aggregates judge stack-rank decisions into ordered
// project scores.
package scoring

import (
	"github.com/judgers-dev/judgers/internal/domain"
)

// tally is the running sum and number of contributions for one project.
type tally struct {
	sum   float64
	count int
}

// ScoreTable accumulates weighted contributions per project key.
// A table is owned by a single scoring call and is not safe for concurrent
// use.
type ScoreTable struct {
	entries map[string]*tally
}

// NewScoreTable creates an empty ScoreTable.
func NewScoreTable() *ScoreTable {
	return &ScoreTable{entries: make(map[string]*tally)}
}

// Add records one contribution of weight for key, creating the entry on
// first touch.
func (t *ScoreTable) Add(key string, weight float64) {
	e, ok := t.entries[key]
	if !ok {
		e = &tally{}
		t.entries[key] = e
	}
	e.sum += weight
	e.count++
}

// Total returns the summed weight for key and whether the key exists.
func (t *ScoreTable) Total(key string) (float64, bool) {
	e, ok := t.entries[key]
	if !ok {
		return 0, false
	}
	return e.sum, true
}

// Average returns the mean weight for key and whether the key exists.
// An entry with no contributions averages to 0.
func (t *ScoreTable) Average(key string) (float64, bool) {
	e, ok := t.entries[key]
	if !ok {
		return 0, false
	}
	if e.count == 0 {
		return 0, true
	}
	return e.sum / float64(e.count), true
}

// Count returns the number of contributions recorded for key.
func (t *ScoreTable) Count(key string) int {
	if e, ok := t.entries[key]; ok {
		return e.count
	}
	return 0
}

// Len returns the number of keys in the table.
func (t *ScoreTable) Len() int { return len(t.entries) }

// ToScores converts the table into Scores, walking projects in order and
// looking each one up by id. Projects without any contribution are
// omitted rather than scored as zero.
func (t *ScoreTable) ToScores(projects []domain.Project, config domain.ScorerConfig) domain.Scores {
	scores := make(domain.Scores, 0, len(projects))
	for _, p := range projects {
		if t.Count(p.ID) == 0 {
			continue
		}

		var value float64
		if config.Mode == domain.ModeTotal {
			value, _ = t.Total(p.ID)
		} else {
			value, _ = t.Average(p.ID)
		}
		scores = append(scores, domain.Score{ProjectName: p.Name, Score: value})
	}
	return scores
}
