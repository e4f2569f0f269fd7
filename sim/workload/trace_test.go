package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procsim/procsim/sim"
)

func TestParseTrace_ValidLines_ProcessesInFileOrder(t *testing.T) {
	// GIVEN a trace with irregular whitespace and a blank line
	input := "0 P1 4 2\n0\tP2  2 2\n\n5 P3 10 100\n"

	// WHEN parsed
	procs, err := ParseTrace(strings.NewReader(input))

	// THEN every line becomes a pending process in file order
	require.NoError(t, err)
	require.Len(t, procs, 3)
	assert.Equal(t, "P1", procs[0].Name)
	assert.Equal(t, "P2", procs[1].Name)
	assert.Equal(t, "P3", procs[2].Name)
	assert.Equal(t, int64(5), procs[2].ArrivalTime)
	assert.Equal(t, int64(10), procs[2].ServiceTime)
	assert.Equal(t, int64(10), procs[2].RemainingTime)
	assert.Equal(t, 100, procs[2].MemoryRequirement)
	assert.Equal(t, sim.StatePending, procs[2].State)
	assert.False(t, procs[2].MemoryAddress.Present())
}

func TestParseTrace_EmptyInput_NoProcesses(t *testing.T) {
	procs, err := ParseTrace(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, procs)
}

func TestParseTrace_MalformedLines_ReportLineNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"too few fields", "0 P1 4\n", "line 1: expected 4 fields"},
		{"bad arrival", "x P1 4 2\n", "line 1: parsing arrival time"},
		{"negative arrival", "-1 P1 4 2\n", "arrival time must be non-negative"},
		{"long name", "0 ABCDEFGHI 4 2\n", "longer than 8 characters"},
		{"zero service", "0 P1 0 2\n", "service time must be positive"},
		{"bad memory", "0 P1 4 two\n", "parsing memory requirement"},
		{"negative memory", "0 P1 4 -2\n", "memory requirement must be non-negative"},
		{"duplicate", "0 P1 4 2\n1 P1 4 2\n", "line 2: duplicate process name"},
		{"out of order", "5 P1 4 2\n3 P2 4 2\n", "line 2: arrival time 3 is earlier"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTrace(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadTrace_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadTrace(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err) || strings.Contains(err.Error(), "opening trace"))
}

func TestLoadTrace_File_Parses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processes.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 P1 4 2\n0 P2 2 2\n"), 0644))

	procs, err := LoadTrace(path)

	require.NoError(t, err)
	assert.Len(t, procs, 2)
}
