package domain

import "strings"

// Validator is implemented by values that can check their own structural
// well-formedness.
type Validator interface {
	// Validate returns nil when the value is well formed, or the first
	// failure found.
	Validate() error
}

var _ Validator = Input{}

// Input is the document handed to allocation runs: the judge pool and the
// project pool.
type Input struct {
	Judges   []Judge   `json:"judges" yaml:"judges"`
	Projects []Project `json:"projects" yaml:"projects"`
}

// NewInput creates an Input from the given judges and projects.
func NewInput(judges []Judge, projects []Project) Input {
	return Input{Judges: judges, Projects: projects}
}

// Validate checks the input in a fixed order and stops at the first failure:
// non-empty judges, non-empty projects, each judge's id then name, unique
// judge ids, each project's id then name, unique project ids.
// Every returned error is a *ValidationError wrapping one of the
// validation sentinels.
func (in Input) Validate() error {
	if len(in.Judges) == 0 {
		return NewValidationError("judges", -1, ErrNoJudges)
	}
	if len(in.Projects) == 0 {
		return NewValidationError("projects", -1, ErrNoProjects)
	}

	for i, j := range in.Judges {
		if isBlank(j.ID) {
			return NewValidationError("judge", i, ErrInvalidJudgeID)
		}
		if isBlank(j.Name) {
			return NewValidationError("judge", i, ErrInvalidJudgeName)
		}
	}
	if i, dup := firstDuplicate(len(in.Judges), func(i int) string { return in.Judges[i].ID }); dup {
		return NewValidationError("judge", i, ErrDuplicateJudgeIDs)
	}

	for i, p := range in.Projects {
		if isBlank(p.ID) {
			return NewValidationError("project", i, ErrInvalidProjectID)
		}
		if isBlank(p.Name) {
			return NewValidationError("project", i, ErrInvalidProjectName)
		}
	}
	if i, dup := firstDuplicate(len(in.Projects), func(i int) string { return in.Projects[i].ID }); dup {
		return NewValidationError("project", i, ErrDuplicateProjectIDs)
	}

	return nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// firstDuplicate returns the index of the first key that was already seen.
func firstDuplicate(n int, key func(int) string) (int, bool) {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		k := key(i)
		if _, ok := seen[k]; ok {
			return i, true
		}
		seen[k] = struct{}{}
	}
	return 0, false
}
