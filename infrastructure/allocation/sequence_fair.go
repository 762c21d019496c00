package allocation

import (
	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
)

var _ ports.Allocator = (*SequenceFairAllocator)(nil)

// SequenceFairAllocator is a deterministic, staggered round robin.
// Every judge receives ceil(P*k/J) projects. Judge i starts at project
// floor(i*P/J) and walks forward, wrapping at the end of the list, so no two
// judges begin on the same project when J <= P.
//
// Coverage is approximately k per project: the ceiling rounds the total
// number of visits up, so some projects may be visited more than k times.
type SequenceFairAllocator struct {
	config   domain.AllocationConfig
	judges   []domain.Judge
	projects []domain.Project
}

// NewSequenceFairAllocator creates a SequenceFairAllocator.
func NewSequenceFairAllocator(
	config domain.AllocationConfig,
	judges []domain.Judge,
	projects []domain.Project,
) *SequenceFairAllocator {
	return &SequenceFairAllocator{
		config:   config,
		judges:   judges,
		projects: projects,
	}
}

// ProjectsPerJudge returns ceil(P*k/J), or 0 when there are no judges.
func ProjectsPerJudge(judges, projects, judgeAmountMin int) int {
	if judges == 0 {
		return 0
	}
	return (projects*judgeAmountMin + judges - 1) / judges
}

// StartOffset returns floor(i*P/J), the first project index for judge i.
func StartOffset(i, judges, projects int) int {
	if judges == 0 {
		return 0
	}
	return i * projects / judges
}

// Allocate assigns projects to judges in staggered order.
func (a *SequenceFairAllocator) Allocate() (domain.Allocations, error) {
	if err := checkCoverage(a.config, a.judges, a.projects); err != nil {
		return nil, err
	}

	numJudges := len(a.judges)
	numProjects := len(a.projects)
	perJudge := ProjectsPerJudge(numJudges, numProjects, a.config.JudgeAmountMin)
	allocations := emptyAllocations(a.judges, min(perJudge, numProjects))

	for i := range allocations {
		start := StartOffset(i, numJudges, numProjects)
		for j := 0; j < perJudge; j++ {
			// A judge never visits the same project twice.
			if j >= numProjects {
				break
			}
			allocations[i].Projects = append(allocations[i].Projects, a.projects[(start+j)%numProjects])
		}
	}

	return allocations, nil
}
