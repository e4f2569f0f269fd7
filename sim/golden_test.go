package sim_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procsim/procsim/sim"
	"github.com/procsim/procsim/sim/internal/testutil"
	"github.com/procsim/procsim/sim/trace"
	"github.com/procsim/procsim/sim/workload"
)

// TestSimulator_GoldenDataset replays every golden trace and compares the
// event log and summary line by line.
func TestSimulator_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			// GIVEN the golden trace and policies
			procs, err := workload.ParseTrace(strings.NewReader(tc.TraceText()))
			require.NoError(t, err)
			cfg := sim.DefaultSimConfig()
			cfg.Scheduler = tc.Scheduler
			cfg.MemoryStrategy = tc.MemoryStrategy
			cfg.Quantum = tc.Quantum
			cfg.MemorySize = tc.MemorySize

			// WHEN the simulation runs with its event log going to a buffer
			var out bytes.Buffer
			st := trace.NewSimulationTrace()
			s, err := sim.NewSimulator(cfg, procs, trace.NewEventLog(&out, st), nil)
			require.NoError(t, err)
			require.NoError(t, s.Run(context.Background()))

			// THEN the event log matches verbatim
			assert.Equal(t, tc.Events, st.Lines())
			assert.Equal(t, strings.Join(tc.Events, "\n")+"\n", out.String())

			// AND the summary matches
			summary, err := s.Metrics.Summary()
			require.NoError(t, err)
			assert.Equal(t, tc.Metrics.CompletedProcesses, summary.CompletedProcesses)
			assert.Equal(t, tc.Metrics.AverageTurnaround, summary.AverageTurnaround)
			assert.InDelta(t, tc.Metrics.MaxOverhead, summary.MaxOverhead, 1e-9)
			assert.InDelta(t, tc.Metrics.AverageOverhead, summary.AverageOverhead, 1e-9)
			assert.Equal(t, tc.Metrics.Makespan, summary.Makespan)

			var report bytes.Buffer
			require.NoError(t, s.Metrics.Print(&report))
			assert.Equal(t, strings.Join(tc.Metrics.Summary, "\n")+"\n", report.String())
		})
	}
}
