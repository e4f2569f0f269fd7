// Package testutil provides shared test infrastructure for the procsim
// simulator. It holds the golden dataset types and loader used by the sim/
// and cmd/ test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one complete run: a trace, the policies it runs under,
// and the exact event log and summary it must produce.
type GoldenTestCase struct {
	Name           string        `json:"name"`
	Scheduler      string        `json:"scheduler"`
	MemoryStrategy string        `json:"memory_strategy"`
	Quantum        int64         `json:"quantum"`
	MemorySize     int           `json:"memory_size"`
	Trace          []string      `json:"trace"`
	Events         []string      `json:"events"`
	Metrics        GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected summary of a golden test case.
type GoldenMetrics struct {
	CompletedProcesses int     `json:"completed_processes"`
	AverageTurnaround  int64   `json:"average_turnaround"`
	MaxOverhead        float64 `json:"max_overhead"`
	AverageOverhead    float64 `json:"average_overhead"`
	Makespan           int64   `json:"makespan"`
	// Summary is the text report, one element per line
	Summary []string `json:"summary"`
}

// TraceText joins the trace lines into trace-file contents.
func (tc GoldenTestCase) TraceText() string {
	return strings.Join(tc.Trace, "\n") + "\n"
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}

	return &dataset
}
