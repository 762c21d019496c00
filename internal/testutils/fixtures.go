package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/judgers-dev/judgers/internal/domain"
)

// Judges returns n judges with ids "1".."n" and names "Judge 1".."Judge n".
func Judges(n int) []domain.Judge {
	judges := make([]domain.Judge, n)
	for i := range judges {
		judges[i] = domain.NewJudge(fmt.Sprint(i+1), fmt.Sprintf("Judge %d", i+1))
	}
	return judges
}

// Projects returns n projects with ids "p1".."pn", names "Project 1".."Project n"
// and table numbers 1..n.
func Projects(n int) []domain.Project {
	projects := make([]domain.Project, n)
	for i := range projects {
		projects[i] = domain.NewProjectAtTable(fmt.Sprintf("p%d", i+1), fmt.Sprintf("Project %d", i+1), i+1)
	}
	return projects
}

// SampleInput returns a valid input with the given number of judges and
// projects.
func SampleInput(judges, projects int) domain.Input {
	return domain.NewInput(Judges(judges), Projects(projects))
}

// SampleInputJSON is a small judges-and-projects document.
const SampleInputJSON = `{
  "judges": [
    {"id": "1", "name": "Ada"},
    {"id": "2", "name": "Grace"},
    {"id": "3", "name": "Linus"}
  ],
  "projects": [
    {"id": "a", "name": "Alpha", "table_number": 1},
    {"id": "b", "name": "Bravo", "table_number": 2},
    {"id": "c", "name": "Charlie"}
  ]
}`

// SampleDecisionsJSON ranks the projects of SampleInputJSON. Alpha averages
// 2.0, Bravo 2.5 and Charlie 1.5 under the default weights.
const SampleDecisionsJSON = `[
  {"judge_id": "1", "ranks": [{"project": "a", "rank": 1}, {"project": "b", "rank": 2}, {"project": "c", "rank": 3}]},
  {"judge_id": "2", "ranks": [{"project": "Bravo", "rank": 1}, {"project": "Charlie", "rank": 2}, {"project": "Alpha", "rank": 3}]}
]`

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}
