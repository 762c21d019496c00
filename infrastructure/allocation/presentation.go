package allocation

import (
	"slices"

	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
)

var _ ports.Allocator = (*PresentationAllocator)(nil)

// PresentationAllocator gives every judge the complete project list in
// input order, as when all judges watch the same presentations.
// JudgeAmountMin is ignored.
type PresentationAllocator struct {
	config   domain.AllocationConfig
	judges   []domain.Judge
	projects []domain.Project
}

// NewPresentationAllocator creates a PresentationAllocator.
func NewPresentationAllocator(
	config domain.AllocationConfig,
	judges []domain.Judge,
	projects []domain.Project,
) *PresentationAllocator {
	return &PresentationAllocator{
		config:   config,
		judges:   judges,
		projects: projects,
	}
}

// Allocate always succeeds. An empty project list gives every judge an
// empty list, and an empty judge list gives an empty result.
func (a *PresentationAllocator) Allocate() (domain.Allocations, error) {
	allocations := make(domain.Allocations, len(a.judges))
	for i, j := range a.judges {
		projects := slices.Clone(a.projects)
		if projects == nil {
			projects = []domain.Project{}
		}
		allocations[i] = domain.NewAllocation(j, projects)
	}
	return allocations, nil
}
