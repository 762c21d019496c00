package allocation

import (
	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
)

var _ ports.Allocator = (*RandomFairAllocator)(nil)

// RandomFairAllocator is a science-fair style allocator. Every project is
// visited by exactly JudgeAmountMin distinct judges drawn at random.
// There is no guarantee that judges see the same or different sets of
// projects, nor that judges carry equal load.
type RandomFairAllocator struct {
	config   domain.AllocationConfig
	judges   []domain.Judge
	projects []domain.Project
	rand     RandSource
}

// NewRandomFairAllocator creates a RandomFairAllocator. Without
// WithRandSource it draws from the process-global generator.
func NewRandomFairAllocator(
	config domain.AllocationConfig,
	judges []domain.Judge,
	projects []domain.Project,
	opts ...Option,
) *RandomFairAllocator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &RandomFairAllocator{
		config:   config,
		judges:   judges,
		projects: projects,
		rand:     o.rand,
	}
}

// Allocate assigns each project to JudgeAmountMin distinct judges.
// Judges are drawn uniformly and redrawn when already holding the project.
// The retry loop terminates because checkCoverage guarantees
// JudgeAmountMin <= len(judges).
func (a *RandomFairAllocator) Allocate() (domain.Allocations, error) {
	if err := checkCoverage(a.config, a.judges, a.projects); err != nil {
		return nil, err
	}

	k := a.config.JudgeAmountMin
	n := len(a.judges)
	perJudge := (len(a.projects)*k + n - 1) / n
	allocations := emptyAllocations(a.judges, perJudge)

	// seen is reset per project, so duplicated input records are treated
	// as distinct projects rather than starving the draw.
	seen := make([]bool, n)
	for _, project := range a.projects {
		clear(seen)
		for assigned := 0; assigned < k; {
			idx := a.rand.IntN(n)
			if seen[idx] {
				continue
			}
			seen[idx] = true
			allocations[idx].Projects = append(allocations[idx].Projects, project)
			assigned++
		}
	}

	return allocations, nil
}
