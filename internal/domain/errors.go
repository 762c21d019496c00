package domain

import (
	"errors"
	"fmt"
)

// Validation errors returned by Input.Validate.
var (
	// ErrNoJudges indicates that the judge collection is empty.
	ErrNoJudges = errors.New("no judges provided")

	// ErrNoProjects indicates that the project collection is empty.
	ErrNoProjects = errors.New("no projects provided")

	// ErrInvalidJudgeID indicates a judge whose id is blank.
	ErrInvalidJudgeID = errors.New("invalid judge id")

	// ErrInvalidJudgeName indicates a judge whose name is blank.
	ErrInvalidJudgeName = errors.New("invalid judge name")

	// ErrDuplicateJudgeIDs indicates that two judges share an id.
	ErrDuplicateJudgeIDs = errors.New("duplicate judge ids")

	// ErrInvalidProjectID indicates a project whose id is blank.
	ErrInvalidProjectID = errors.New("invalid project id")

	// ErrInvalidProjectName indicates a project whose name is blank.
	ErrInvalidProjectName = errors.New("invalid project name")

	// ErrDuplicateProjectIDs indicates that two projects share an id.
	ErrDuplicateProjectIDs = errors.New("duplicate project ids")
)

// Allocation, scoring and time errors.
var (
	// ErrNotEnoughJudges is the sentinel wrapped by NotEnoughJudgesError.
	ErrNotEnoughJudges = errors.New("not enough judges")

	// ErrInvalidJudgeAmount indicates a negative judge_amount_min.
	ErrInvalidJudgeAmount = errors.New("invalid judge amount")

	// ErrNoRankWeights indicates that scoring was requested without any
	// rank weights.
	ErrNoRankWeights = errors.New("no rank weights provided")

	// ErrInvalidRankWeight indicates a rank weight that is NaN or infinite.
	ErrInvalidRankWeight = errors.New("invalid rank weight")

	// ErrInvalidTime indicates an hour or minute outside the valid range,
	// or a time string that is not in HH:MM form.
	ErrInvalidTime = errors.New("invalid time")

	// ErrFailedToCreateSpreadsheet is the sentinel wrapped by SpreadsheetError.
	ErrFailedToCreateSpreadsheet = errors.New("failed to create spreadsheet")
)

// ValidationError represents a failed structural check on an input record.
// It names the collection and position of the offending record and unwraps
// to one of the validation sentinels above.
type ValidationError struct {
	// Entity is the collection that failed validation ("judge" or "project").
	Entity string

	// Index is the position of the offending record, or -1 when the failure
	// concerns the collection as a whole.
	Index int

	// Err is the sentinel describing the failure.
	Err error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validation error for %s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("validation error for %s[%d]: %v", e.Entity, e.Index, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string, index int, err error) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Index:  index,
		Err:    err,
	}
}

// NotEnoughJudgesError is returned by allocators when each project needs
// more distinct judges than exist.
type NotEnoughJudgesError struct {
	// Judges is the number of judges available.
	Judges int

	// Projects is the number of projects to allocate.
	Projects int

	// JudgeAmountMin is the requested number of distinct judges per project.
	JudgeAmountMin int
}

// Error implements the error interface for NotEnoughJudgesError.
func (e *NotEnoughJudgesError) Error() string {
	return fmt.Sprintf("%v: judges=%d, projects=%d, judge_amount_min=%d",
		ErrNotEnoughJudges, e.Judges, e.Projects, e.JudgeAmountMin)
}

// Unwrap returns ErrNotEnoughJudges so callers can use errors.Is.
func (e *NotEnoughJudgesError) Unwrap() error { return ErrNotEnoughJudges }

// NewNotEnoughJudgesError creates a new NotEnoughJudgesError.
func NewNotEnoughJudgesError(judges, projects, judgeAmountMin int) *NotEnoughJudgesError {
	return &NotEnoughJudgesError{
		Judges:         judges,
		Projects:       projects,
		JudgeAmountMin: judgeAmountMin,
	}
}

// SpreadsheetError wraps a failure reported by the workbook library.
// The underlying message is kept opaque; callers match on
// ErrFailedToCreateSpreadsheet.
type SpreadsheetError struct {
	// Operation describes what the writer was doing when it failed.
	Operation string

	// Err is the error reported by the workbook library.
	Err error
}

// Error implements the error interface for SpreadsheetError.
func (e *SpreadsheetError) Error() string {
	return fmt.Sprintf("%v: operation=%s, err=%v", ErrFailedToCreateSpreadsheet, e.Operation, e.Err)
}

// Unwrap exposes both the sentinel and the library error.
func (e *SpreadsheetError) Unwrap() []error {
	return []error{ErrFailedToCreateSpreadsheet, e.Err}
}

// NewSpreadsheetError creates a new SpreadsheetError.
func NewSpreadsheetError(operation string, err error) *SpreadsheetError {
	return &SpreadsheetError{
		Operation: operation,
		Err:       err,
	}
}
