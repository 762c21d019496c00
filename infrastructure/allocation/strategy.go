package allocation

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
)

// Strategy is the closed set of allocation strategies.
type Strategy int

// Supported strategies. RandomFair is the zero value and the fallback for
// unrecognized keys.
const (
	RandomFair Strategy = iota
	SequenceFair
	Presentation
)

// Strategy keys accepted by ParseStrategy.
const (
	KeyRandom       = "random"
	KeySequence     = "sequence"
	KeyPresentation = "presentation"
)

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{RandomFair, SequenceFair, Presentation}
}

// ParseStrategy maps a key to a Strategy. Matching ignores case and
// surrounding whitespace. The boolean reports whether the key was
// recognized; unrecognized keys map to RandomFair.
func ParseStrategy(key string) (Strategy, bool) {
	// A Caser is stateful, so each call gets its own.
	switch cases.Fold().String(strings.TrimSpace(key)) {
	case KeyRandom:
		return RandomFair, true
	case KeySequence:
		return SequenceFair, true
	case KeyPresentation:
		return Presentation, true
	default:
		return RandomFair, false
	}
}

// String returns the key of the strategy.
func (s Strategy) String() string {
	switch s {
	case SequenceFair:
		return KeySequence
	case Presentation:
		return KeyPresentation
	default:
		return KeyRandom
	}
}

// New constructs the allocator for the given strategy.
func New(
	s Strategy,
	cfg domain.AllocationConfig,
	judges []domain.Judge,
	projects []domain.Project,
	opts ...Option,
) ports.Allocator {
	switch s {
	case SequenceFair:
		return NewSequenceFairAllocator(cfg, judges, projects)
	case Presentation:
		return NewPresentationAllocator(cfg, judges, projects)
	default:
		return NewRandomFairAllocator(cfg, judges, projects, opts...)
	}
}
