package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/testutils"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append(args, "--log-level", "error"), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestAllocateCommand(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)

	code, stdout, stderr := runCLI(t, "allocate", "--input", input, "--allocator", "presentation")
	require.Equal(t, 0, code, stderr)

	var allocs domain.Allocations
	require.NoError(t, json.Unmarshal([]byte(stdout), &allocs))
	require.Len(t, allocs, 3)
	for _, a := range allocs {
		assert.Len(t, a.Projects, 3)
	}
}

func TestAllocateCommandSeeded(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)

	_, first, _ := runCLI(t, "allocate", "-i", input, "--seed", "11", "--judge-count", "2")
	_, second, _ := runCLI(t, "allocate", "-i", input, "--seed", "11", "--judge-count", "2")
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestAllocateCommandNotEnoughJudges(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)

	code, stdout, stderr := runCLI(t, "allocate", "--input", input, "--judge-count", "4")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "not enough judges")
}

func TestAllocateCommandWritesFile(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)
	out := filepath.Join(t.TempDir(), "allocations.json")
	metrics := filepath.Join(t.TempDir(), "judgers.prom")

	code, stdout, stderr := runCLI(t, "allocate", "-i", input, "-a", "sequence", "-o", out, "--metrics-file", metrics)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var allocs domain.Allocations
	require.NoError(t, json.Unmarshal(data, &allocs))
	assert.Len(t, allocs, 3)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "judgers_operations_total")
}

func TestAllocateCommandConfigFile(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)
	out := filepath.Join(t.TempDir(), "plan.xlsx")
	config := testutils.WriteFile(t, "judgers.yaml", "allocation:\n  strategy: presentation\n  format: xlsx\n  output_path: "+out+"\n")

	code, _, stderr := runCLI(t, "--config", config, "allocate", "-i", input)
	require.Equal(t, 0, code, stderr)

	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestAllocateCommandErrors(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)
	badConfig := testutils.WriteFile(t, "bad.yaml", "allocation:\n  slots: 3\n")

	tests := []struct {
		name string
		args []string
	}{
		{"missing input flag", []string{"allocate"}},
		{"missing input file", []string{"allocate", "-i", filepath.Join(t.TempDir(), "none.json")}},
		{"bad start time", []string{"allocate", "-i", input, "--start-time", "9am"}},
		{"bad config", []string{"--config", badConfig, "allocate", "-i", input}},
		{"bad log level", []string{"allocate", "-i", input, "--log-level", "chatty"}},
		{"unknown command", []string{"schedule"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), "error:")
		})
	}
}

func TestScoreCommand(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)
	decisions := testutils.WriteFile(t, "decisions.json", testutils.SampleDecisionsJSON)

	code, stdout, stderr := runCLI(t, "score", "-i", input, "-d", decisions, "--order", "project_name_asc")
	require.Equal(t, 0, code, stderr)

	assert.JSONEq(t, `[
		{"project_name": "Alpha", "score": 2},
		{"project_name": "Bravo", "score": 2.5},
		{"project_name": "Charlie", "score": 1.5}
	]`, stdout)
}

func TestScoreCommandTotalWithWeights(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)
	decisions := testutils.WriteFile(t, "decisions.json", testutils.SampleDecisionsJSON)
	weights := testutils.WriteFile(t, "weights.yaml", "1: 1\n2: 1\n3: 1\n")

	code, stdout, stderr := runCLI(t, "score", "-i", input, "-d", decisions, "-w", weights, "--mode", "total")
	require.Equal(t, 0, code, stderr)

	var scores domain.Scores
	require.NoError(t, json.Unmarshal([]byte(stdout), &scores))
	require.Len(t, scores, 3)
	for _, s := range scores {
		assert.Equal(t, 2.0, s.Score)
	}
	assert.Equal(t, "Alpha", scores[0].ProjectName, "ties keep project order")
}

func TestScoreCommandRequiresDecisions(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)
	code, _, stderr := runCLI(t, "score", "-i", input)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "decisions")
}

func TestSpreadsheetCommand(t *testing.T) {
	input := testutils.WriteFile(t, "input.json", testutils.SampleInputJSON)
	out := filepath.Join(t.TempDir(), "judging.xlsx")

	code, stdout, stderr := runCLI(t, "spreadsheet", "-i", input, "-o", out, "--start-time", "14:00")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Spreadsheet written to "+out)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
