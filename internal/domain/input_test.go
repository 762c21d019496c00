package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return NewInput(
		[]Judge{NewJudge("1", "Judge 1"), NewJudge("2", "Judge 2")},
		[]Project{NewProject("a", "Project A"), NewProjectAtTable("b", "Project B", 4)},
	)
}

// TestInputValidate verifies each validation rule and that failures are
// reported in the documented order.
func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *Input)
		wantErr error
		wantIdx int
	}{
		{
			name:   "valid input",
			mutate: func(in *Input) {},
		},
		{
			name:    "no judges",
			mutate:  func(in *Input) { in.Judges = nil },
			wantErr: ErrNoJudges,
			wantIdx: -1,
		},
		{
			name:    "no projects",
			mutate:  func(in *Input) { in.Projects = []Project{} },
			wantErr: ErrNoProjects,
			wantIdx: -1,
		},
		{
			name:    "no judges reported before no projects",
			mutate:  func(in *Input) { in.Judges, in.Projects = nil, nil },
			wantErr: ErrNoJudges,
			wantIdx: -1,
		},
		{
			name:    "empty judge id",
			mutate:  func(in *Input) { in.Judges[1].ID = "" },
			wantErr: ErrInvalidJudgeID,
			wantIdx: 1,
		},
		{
			name:    "whitespace judge id",
			mutate:  func(in *Input) { in.Judges[0].ID = " \t" },
			wantErr: ErrInvalidJudgeID,
			wantIdx: 0,
		},
		{
			name:    "empty judge name",
			mutate:  func(in *Input) { in.Judges[0].Name = "  " },
			wantErr: ErrInvalidJudgeName,
			wantIdx: 0,
		},
		{
			name: "judge id checked before judge name",
			mutate: func(in *Input) {
				in.Judges[0].ID = ""
				in.Judges[0].Name = ""
			},
			wantErr: ErrInvalidJudgeID,
			wantIdx: 0,
		},
		{
			name:    "duplicate judge ids",
			mutate:  func(in *Input) { in.Judges[1].ID = "1" },
			wantErr: ErrDuplicateJudgeIDs,
			wantIdx: 1,
		},
		{
			name: "malformed judge reported before duplicate",
			mutate: func(in *Input) {
				in.Judges = append(in.Judges, NewJudge("1", "Again"), NewJudge("3", ""))
			},
			wantErr: ErrInvalidJudgeName,
			wantIdx: 3,
		},
		{
			name:    "empty project id",
			mutate:  func(in *Input) { in.Projects[0].ID = "" },
			wantErr: ErrInvalidProjectID,
			wantIdx: 0,
		},
		{
			name:    "empty project name",
			mutate:  func(in *Input) { in.Projects[1].Name = "" },
			wantErr: ErrInvalidProjectName,
			wantIdx: 1,
		},
		{
			name:    "duplicate project ids",
			mutate:  func(in *Input) { in.Projects[1].ID = "a" },
			wantErr: ErrDuplicateProjectIDs,
			wantIdx: 1,
		},
		{
			name: "judge problems reported before project problems",
			mutate: func(in *Input) {
				in.Judges[1].ID = "1"
				in.Projects[1].ID = "a"
			},
			wantErr: ErrDuplicateJudgeIDs,
			wantIdx: 1,
		},
		{
			name:   "duplicate names are allowed",
			mutate: func(in *Input) { in.Judges[1].Name = "Judge 1" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "should be a ValidationError")
			assert.Equal(t, tt.wantIdx, verr.Index)
		})
	}
}

// TestInputImplementsValidator ensures Input satisfies the Validator
// capability.
func TestInputImplementsValidator(t *testing.T) {
	var v Validator = validInput()
	assert.NoError(t, v.Validate())
}
