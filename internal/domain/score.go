package domain

import (
	"fmt"
	"math"
	"sort"
)

// RankEntry is one project placement inside a judge's stack ranking.
type RankEntry struct {
	// Project identifies the ranked project by id or by name.
	Project string `json:"project" yaml:"project"`

	// Rank is the 1-based position the judge gave the project.
	Rank int `json:"rank" yaml:"rank"`
}

// StackRankDecision is one judge's full ranking of the projects they saw.
type StackRankDecision struct {
	// JudgeID identifies the judge who made the decision.
	JudgeID string `json:"judge_id" yaml:"judge_id"`

	// Ranks lists the projects in the order the judge submitted them.
	Ranks []RankEntry `json:"ranks" yaml:"ranks"`
}

// RankWeights maps a rank position to the points it awards.
type RankWeights map[int]float64

// DefaultRankWeights awards 3, 2 and 1 points to the first three ranks.
func DefaultRankWeights() RankWeights {
	return RankWeights{1: 3.0, 2: 2.0, 3: 1.0}
}

// Validate rejects NaN and infinite weights so scores stay comparable.
// An empty mapping is reported as ErrNoRankWeights.
func (w RankWeights) Validate() error {
	if len(w) == 0 {
		return ErrNoRankWeights
	}
	for rank, weight := range w {
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return fmt.Errorf("%w: rank=%d, weight=%f", ErrInvalidRankWeight, rank, weight)
		}
	}
	return nil
}

// Ranks returns the mapped rank positions in ascending order.
func (w RankWeights) Ranks() []int {
	ranks := make([]int, 0, len(w))
	for r := range w {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	return ranks
}

// Score is the aggregated result for one project.
type Score struct {
	ProjectName string  `json:"project_name"`
	Score       float64 `json:"score"`
}

// Scores is an ordered list of project scores.
type Scores []Score
