package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procsim/procsim/sim"
)

func resultPaths(t *testing.T) (string, string) {
	dir := t.TempDir()
	return filepath.Join(dir, "results.yaml"), filepath.Join(dir, "results.csv")
}

func TestResults_RoundTrip_PreservesAllFields(t *testing.T) {
	// GIVEN a header and two completion records
	header := &ResultsHeader{
		Version: ResultsVersion, TraceFile: "processes.txt",
		Scheduler: sim.SchedulerRoundRobin, MemoryStrategy: sim.MemoryBestFit,
		Quantum: 3, MemorySize: 2048, Makespan: 42, PeakMemoryUsage: 75,
	}
	records := []sim.CompletionRecord{
		{Name: "P2", ArrivalTime: 0, ServiceTime: 2, CompletionTime: 6, Turnaround: 6, Overhead: 3},
		{Name: "P1", ArrivalTime: 5, ServiceTime: 3, CompletionTime: 42, Turnaround: 37, Overhead: 37.0 / 3.0},
	}
	headerPath, dataPath := resultPaths(t)

	// WHEN exported and loaded back
	require.NoError(t, ExportResults(header, records, headerPath, dataPath))
	loaded, err := LoadResults(headerPath, dataPath)

	// THEN everything survives, including full float precision
	require.NoError(t, err)
	assert.Equal(t, *header, loaded.Header)
	assert.Equal(t, records, loaded.Records)
}

func TestResults_NoRecords_HeaderOnly(t *testing.T) {
	headerPath, dataPath := resultPaths(t)
	header := &ResultsHeader{Version: ResultsVersion, Scheduler: sim.SchedulerSJF, MemoryStrategy: sim.MemoryInfinite, Quantum: 1}

	require.NoError(t, ExportResults(header, nil, headerPath, dataPath))
	loaded, err := LoadResults(headerPath, dataPath)

	require.NoError(t, err)
	assert.Empty(t, loaded.Records)
	assert.Equal(t, sim.SchedulerSJF, loaded.Header.Scheduler)
}

func TestLoadResults_UnknownYAMLField_ReturnsError(t *testing.T) {
	// GIVEN a header with a typo
	headerPath, dataPath := resultPaths(t)
	require.NoError(t, os.WriteFile(headerPath, []byte("schedulr: RR\nresults_version: 1\n"), 0644))
	require.NoError(t, os.WriteFile(dataPath, []byte("process_name,arrival_time,service_time,completion_time,turnaround,overhead\n"), 0644))

	// WHEN loading
	_, err := LoadResults(headerPath, dataPath)

	// THEN the unknown field is named
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedulr")
}

func TestParseResultsRow_InvalidInteger_ReturnsError(t *testing.T) {
	_, err := parseResultsRow([]string{"P1", "0", "abc", "4", "4", "2"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "service_time")
}
