// Package allocation provides the judge allocation strategies that
// implement ports.Allocator: RandomFair, SequenceFair and Presentation.
package allocation

import (
	"fmt"
	"math/rand/v2"

	"github.com/judgers-dev/judgers/internal/domain"
)

// RandSource is the randomness used by RandomFair.
// *rand.Rand from math/rand/v2 satisfies it, so tests can pass a seeded
// generator and assert exact outcomes.
type RandSource interface {
	// IntN returns a uniformly distributed integer in [0, n).
	IntN(n int) int
}

// globalSource draws from the process-wide math/rand/v2 generator, which is
// seeded from the operating system.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// NewSeededSource returns a deterministic source for reproducible runs.
func NewSeededSource(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Option configures an allocator.
type Option func(*options)

type options struct {
	rand RandSource
}

func defaultOptions() options {
	return options{rand: globalSource{}}
}

// WithRandSource replaces the randomness source. A nil source is ignored.
func WithRandSource(src RandSource) Option {
	return func(o *options) {
		if src != nil {
			o.rand = src
		}
	}
}

// checkCoverage verifies the preconditions shared by the fair allocators:
// a non-negative JudgeAmountMin, at least one judge, at least one project,
// and enough judges that every project can be seen by JudgeAmountMin
// distinct judges.
func checkCoverage(cfg domain.AllocationConfig, judges []domain.Judge, projects []domain.Project) error {
	if cfg.JudgeAmountMin < 0 {
		return fmt.Errorf("%w: judge_amount_min=%d", domain.ErrInvalidJudgeAmount, cfg.JudgeAmountMin)
	}
	if len(judges) == 0 {
		return domain.ErrNoJudges
	}
	if len(projects) == 0 {
		return domain.ErrNoProjects
	}
	if cfg.JudgeAmountMin > len(judges) {
		return domain.NewNotEnoughJudgesError(len(judges), len(projects), cfg.JudgeAmountMin)
	}
	return nil
}

// emptyAllocations creates one empty allocation per judge, in input order.
func emptyAllocations(judges []domain.Judge, capacity int) domain.Allocations {
	allocations := make(domain.Allocations, len(judges))
	for i, j := range judges {
		allocations[i] = domain.NewAllocation(j, make([]domain.Project, 0, capacity))
	}
	return allocations
}
