// Package ports defines the interfaces that form the contract between the
// application layer and the allocation, scoring, storage and observability
// implementations in the infrastructure layer.
package ports

import (
	"github.com/judgers-dev/judgers/internal/domain"
)

// Allocator assigns projects to judges.
// Implementations own their working accumulators for the duration of one
// call and return either a complete result or an error, never both.
type Allocator interface {
	// Allocate returns one Allocation per judge, in judge input order.
	Allocate() (domain.Allocations, error)
}

// Scorer aggregates judge rank decisions into ordered project scores.
type Scorer interface {
	// Score returns the scores sorted according to the scorer's configuration.
	Score() (domain.Scores, error)
}
