// Package spreadsheet renders allocations and scores as xlsx workbooks.
//
// An allocation workbook has one worksheet per judge listing that judge's
// projects in schedule order. When rank weights are supplied it also carries
// a "Score Configuration" sheet with the weight table and a "Results" sheet
// whose formulas total each project's points across every judge sheet, so
// judges can fill in ranks and read scores without running the scorer.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"

	"github.com/judgers-dev/judgers/internal/domain"
)

// Sheet and column names.
const (
	ScoreConfigSheet = "Score Configuration"
	ResultsSheet     = "Results"
	ScoresSheet      = "Scores"

	ProjectHeader = "Project"
	TimeHeader    = "Time"
	TableHeader   = "Table"
	NotesHeader   = "Notes"
	RankHeader    = "Rank"
	PointsHeader  = "Points"
)

const defaultSheet = "Sheet1"

// column layout of a judge sheet.
var judgeColumns = []struct {
	header string
	width  float64
}{
	{ProjectHeader, 30},
	{TimeHeader, 15},
	{TableHeader, 10},
	{NotesHeader, 40},
	{RankHeader, 10},
	{PointsHeader, 10},
}

// Config controls how an allocation workbook is laid out.
type Config struct {
	// JudgeTime is the number of minutes each judge spends on a project.
	JudgeTime int

	// StartTime is when the first project of every judge is scheduled.
	StartTime domain.TimeOfDay

	// RankWeights, when non-empty, adds the score configuration and
	// results sheets.
	RankWeights domain.RankWeights
}

// judgeSheet records where a judge's rows ended up, for the results
// formulas.
type judgeSheet struct {
	name string
	rows int
}

// WriteAllocations renders allocs as a workbook and writes it to w.
// Failures are reported as *domain.SpreadsheetError.
func WriteAllocations(w io.Writer, allocs domain.Allocations, cfg Config) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return domain.NewSpreadsheetError("create header style", err)
	}

	sheets, err := addJudgeSheets(f, allocs, cfg, bold)
	if err != nil {
		return err
	}

	if len(cfg.RankWeights) > 0 {
		if err := addScoreConfigSheet(f, cfg.RankWeights, bold, len(sheets) == 0); err != nil {
			return err
		}
		if err := addResultsSheet(f, allocs, sheets, bold); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return domain.NewSpreadsheetError("save workbook", err)
	}
	return nil
}

// AllocationsWorkbook returns the workbook bytes for allocs.
func AllocationsWorkbook(allocs domain.Allocations, cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteAllocations(&buf, allocs, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addSheet creates a worksheet, reusing the default sheet for the first one.
func addSheet(f *excelize.File, name string, first bool) error {
	if first {
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			return domain.NewSpreadsheetError("add worksheet", err)
		}
		return nil
	}
	if _, err := f.NewSheet(name); err != nil {
		return domain.NewSpreadsheetError("add worksheet", err)
	}
	return nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return domain.NewSpreadsheetError("write header", err)
		}
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return domain.NewSpreadsheetError("write header", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return domain.NewSpreadsheetError("style header", err)
	}
	return nil
}

// sheetKey folds a sheet name so that names Excel treats as equal collide.
func sheetKey(name string) string {
	return cases.Fold().String(name)
}

func addJudgeSheets(f *excelize.File, allocs domain.Allocations, cfg Config, style int) ([]judgeSheet, error) {
	sheets := make([]judgeSheet, 0, len(allocs))
	seen := make(map[string]struct{}, len(allocs))
	headers := make([]string, len(judgeColumns))
	for i, c := range judgeColumns {
		headers[i] = c.header
	}
	if len(cfg.RankWeights) == 0 {
		headers = headers[:len(headers)-1]
	} else {
		seen[sheetKey(ScoreConfigSheet)] = struct{}{}
		seen[sheetKey(ResultsSheet)] = struct{}{}
	}

	for i, alloc := range allocs {
		name := alloc.Judge.Name
		key := sheetKey(name)
		if _, dup := seen[key]; dup {
			return nil, domain.NewSpreadsheetError("add worksheet", fmt.Errorf("duplicate sheet name %q", name))
		}
		seen[key] = struct{}{}

		if err := addSheet(f, name, i == 0); err != nil {
			return nil, err
		}
		if err := writeHeaders(f, name, headers, style); err != nil {
			return nil, err
		}
		for col := range headers {
			letter, _ := excelize.ColumnNumberToName(col + 1)
			if err := f.SetColWidth(name, letter, letter, judgeColumns[col].width); err != nil {
				return nil, domain.NewSpreadsheetError("set column width", err)
			}
		}

		for j, p := range alloc.Projects {
			row := j + 2
			slot := cfg.StartTime.Add(j * cfg.JudgeTime)
			values := []any{p.Name, slot.Format(), tableValue(p), "", ""}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(name, cell, v); err != nil {
					return nil, domain.NewSpreadsheetError("write project row", err)
				}
			}
			if len(cfg.RankWeights) > 0 {
				cell := fmt.Sprintf("F%d", row)
				if err := f.SetCellFormula(name, cell, pointsFormula(row, len(cfg.RankWeights))); err != nil {
					return nil, domain.NewSpreadsheetError("write points formula", err)
				}
			}
		}
		sheets = append(sheets, judgeSheet{name: name, rows: len(alloc.Projects)})
	}
	return sheets, nil
}

// tableValue is the project's table number when set, otherwise its id.
func tableValue(p domain.Project) any {
	if p.TableNumber != nil {
		return *p.TableNumber
	}
	return p.ID
}

func addScoreConfigSheet(f *excelize.File, weights domain.RankWeights, style int, first bool) error {
	if err := addSheet(f, ScoreConfigSheet, first); err != nil {
		return err
	}
	if err := writeHeaders(f, ScoreConfigSheet, []string{RankHeader, "Weight"}, style); err != nil {
		return err
	}
	for i, r := range weights.Ranks() {
		row := i + 2
		if err := f.SetCellValue(ScoreConfigSheet, fmt.Sprintf("A%d", row), r); err != nil {
			return domain.NewSpreadsheetError("write rank weight", err)
		}
		if err := f.SetCellValue(ScoreConfigSheet, fmt.Sprintf("B%d", row), weights[r]); err != nil {
			return domain.NewSpreadsheetError("write rank weight", err)
		}
	}
	return nil
}

func addResultsSheet(f *excelize.File, allocs domain.Allocations, sheets []judgeSheet, style int) error {
	if err := addSheet(f, ResultsSheet, false); err != nil {
		return err
	}
	headers := []string{ProjectHeader, "ID", "Total", "Count", "Average"}
	if err := writeHeaders(f, ResultsSheet, headers, style); err != nil {
		return err
	}
	if err := f.SetColWidth(ResultsSheet, "A", "A", 30); err != nil {
		return domain.NewSpreadsheetError("set column width", err)
	}

	for i, p := range distinctProjects(allocs) {
		row := i + 2
		if err := f.SetCellStr(ResultsSheet, fmt.Sprintf("A%d", row), p.Name); err != nil {
			return domain.NewSpreadsheetError("write result row", err)
		}
		if err := f.SetCellStr(ResultsSheet, fmt.Sprintf("B%d", row), p.ID); err != nil {
			return domain.NewSpreadsheetError("write result row", err)
		}
		formulas := []struct{ cell, formula string }{
			{fmt.Sprintf("C%d", row), totalFormula(row, sheets)},
			{fmt.Sprintf("D%d", row), countFormula(row, sheets)},
			{fmt.Sprintf("E%d", row), fmt.Sprintf("IF(D%d=0,0,C%d/D%d)", row, row, row)},
		}
		for _, fm := range formulas {
			if err := f.SetCellFormula(ResultsSheet, fm.cell, fm.formula); err != nil {
				return domain.NewSpreadsheetError("write result formula", err)
			}
		}
	}
	return nil
}

// distinctProjects lists allocated projects by first appearance, keyed by
// name since the results formulas match on the Project column.
func distinctProjects(allocs domain.Allocations) []domain.Project {
	var out []domain.Project
	seen := make(map[string]struct{})
	for _, a := range allocs {
		for _, p := range a.Projects {
			if _, ok := seen[p.Name]; ok {
				continue
			}
			seen[p.Name] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// quoteSheet renders a sheet name for use in a cross-sheet reference.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func pointsFormula(row, weights int) string {
	return fmt.Sprintf(`IF(E%d="","",IFERROR(VLOOKUP(E%d,%s!$A$2:$B$%d,2,FALSE),""))`,
		row, row, quoteSheet(ScoreConfigSheet), weights+1)
}

func totalFormula(row int, sheets []judgeSheet) string {
	var terms []string
	for _, s := range sheets {
		if s.rows == 0 {
			continue
		}
		q, last := quoteSheet(s.name), s.rows+1
		terms = append(terms, fmt.Sprintf("SUMIF(%s!$A$2:$A$%d,$A%d,%s!$F$2:$F$%d)", q, last, row, q, last))
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, "+")
}

func countFormula(row int, sheets []judgeSheet) string {
	var terms []string
	for _, s := range sheets {
		if s.rows == 0 {
			continue
		}
		q, last := quoteSheet(s.name), s.rows+1
		terms = append(terms, fmt.Sprintf("SUMPRODUCT((%s!$A$2:$A$%d=$A%d)*ISNUMBER(%s!$F$2:$F$%d))", q, last, row, q, last))
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, "+")
}

// WriteScores renders scores as a single-sheet workbook and writes it to w.
func WriteScores(w io.Writer, scores domain.Scores) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return domain.NewSpreadsheetError("create header style", err)
	}
	if err := addSheet(f, ScoresSheet, true); err != nil {
		return err
	}
	if err := writeHeaders(f, ScoresSheet, []string{ProjectHeader, "Score"}, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(ScoresSheet, "A", "A", 30); err != nil {
		return domain.NewSpreadsheetError("set column width", err)
	}
	for i, s := range scores {
		row := i + 2
		if err := f.SetCellStr(ScoresSheet, fmt.Sprintf("A%d", row), s.ProjectName); err != nil {
			return domain.NewSpreadsheetError("write score row", err)
		}
		if err := f.SetCellValue(ScoresSheet, fmt.Sprintf("B%d", row), s.Score); err != nil {
			return domain.NewSpreadsheetError("write score row", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return domain.NewSpreadsheetError("save workbook", err)
	}
	return nil
}

// ScoresWorkbook returns the workbook bytes for scores.
func ScoresWorkbook(scores domain.Scores) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteScores(&buf, scores); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
