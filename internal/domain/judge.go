// Package domain defines the core entities of the judging engine: judges,
// projects, allocations, rank decisions and scores, together with the
// validation rules and error taxonomy shared by every other layer.
// The package performs no I/O.
package domain

// Judge is an evaluator assigned to review projects.
type Judge struct {
	// ID uniquely identifies this judge within an input document.
	ID string `json:"id" yaml:"id"`

	// Name is the display name of the judge. Workbook output uses it
	// verbatim as the worksheet name.
	Name string `json:"name" yaml:"name"`
}

// NewJudge creates a Judge with the given id and name.
func NewJudge(id, name string) Judge {
	return Judge{ID: id, Name: name}
}

// Project is an entry being evaluated.
type Project struct {
	// ID uniquely identifies this project within an input document.
	ID string `json:"id" yaml:"id"`

	// Name is the display name of the project. Score output and workbook
	// lookups key on it.
	Name string `json:"name" yaml:"name"`

	// TableNumber is where the project is physically located.
	// It is informational only and omitted from JSON when absent.
	TableNumber *int `json:"table_number,omitempty" yaml:"table_number,omitempty"`
}

// NewProject creates a Project with no table number.
func NewProject(id, name string) Project {
	return Project{ID: id, Name: name}
}

// NewProjectAtTable creates a Project located at the given table.
func NewProjectAtTable(id, name string, table int) Project {
	return Project{ID: id, Name: name, TableNumber: &table}
}
