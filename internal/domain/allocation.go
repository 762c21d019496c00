package domain

import (
	"fmt"
	"strings"
)

// Allocation is the ordered list of projects one judge must evaluate.
// Order is meaningful: it is the judge's schedule.
type Allocation struct {
	// Judge is the judge the projects are assigned to.
	Judge Judge `json:"judge"`

	// Projects are the assigned projects in visiting order.
	Projects []Project `json:"projects"`
}

// NewAllocation creates an Allocation for the given judge.
func NewAllocation(judge Judge, projects []Project) Allocation {
	if projects == nil {
		projects = []Project{}
	}
	return Allocation{Judge: judge, Projects: projects}
}

// Allocations holds one Allocation per input judge, in input order.
// It serializes as a bare JSON list.
type Allocations []Allocation

// CoverageByProjectID counts how many allocations include each project id.
func (as Allocations) CoverageByProjectID() map[string]int {
	counts := make(map[string]int)
	for _, a := range as {
		for _, p := range a.Projects {
			counts[p.ID]++
		}
	}
	return counts
}

// String renders a human-readable summary listing each judge and their
// projects.
func (as Allocations) String() string {
	var b strings.Builder
	for _, a := range as {
		fmt.Fprintf(&b, "Judge: %s\n", a.Judge.Name)
		for _, p := range a.Projects {
			fmt.Fprintf(&b, "  Project: %s\n", p.Name)
		}
	}
	return b.String()
}
