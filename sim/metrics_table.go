// sim/metrics_table.go
package sim

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes per-process turnaround and overhead.
type Distribution struct {
	TurnaroundP50  float64
	TurnaroundP90  float64
	TurnaroundMax  float64
	OverheadMean   float64
	OverheadStdDev float64
}

// Distribution computes percentiles over the completed processes.
func (m *Metrics) Distribution() (Distribution, error) {
	if len(m.Completions) == 0 {
		return Distribution{}, ErrNoCompletedProcesses
	}
	turnarounds := make([]float64, len(m.Completions))
	overheads := make([]float64, len(m.Completions))
	for i, c := range m.Completions {
		turnarounds[i] = float64(c.Turnaround)
		overheads[i] = c.Overhead
	}
	// stat.Quantile requires sorted input
	sort.Float64s(turnarounds)

	d := Distribution{
		TurnaroundP50: stat.Quantile(0.5, stat.Empirical, turnarounds, nil),
		TurnaroundP90: stat.Quantile(0.9, stat.Empirical, turnarounds, nil),
		TurnaroundMax: floats.Max(turnarounds),
		OverheadMean:  stat.Mean(overheads, nil),
	}
	if len(overheads) > 1 {
		d.OverheadStdDev = stat.StdDev(overheads, nil)
	}
	return d, nil
}

// PrintTable renders one row per completed process followed by the summary
// statistics and distribution as a footer.
func (m *Metrics) PrintTable(w io.Writer) error {
	s, err := m.Summary()
	if errors.Is(err, ErrNoCompletedProcesses) {
		_, werr := fmt.Fprintf(w, "No processes completed\nMakespan %d\n", s.Makespan)
		return werr
	}
	d, err := m.Distribution()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Process", "Arrival", "Service", "Completion", "Turnaround", "Overhead"})
	for _, c := range m.Completions {
		table.Append([]string{
			c.Name,
			strconv.FormatInt(c.ArrivalTime, 10),
			strconv.FormatInt(c.ServiceTime, 10),
			strconv.FormatInt(c.CompletionTime, 10),
			strconv.FormatInt(c.Turnaround, 10),
			fmt.Sprintf("%.2f", roundTo2(c.Overhead)),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%d done", s.CompletedProcesses),
		"",
		fmt.Sprintf("Makespan\n%d", s.Makespan),
		fmt.Sprintf("Peak memory\n%d%%", m.PeakMemoryUsage),
		fmt.Sprintf("Average %d\np50 %.0f p90 %.0f\nMax %.0f", s.AverageTurnaround, d.TurnaroundP50, d.TurnaroundP90, d.TurnaroundMax),
		fmt.Sprintf("Max %.2f\nAverage %.2f\nStdDev %.2f", s.MaxOverhead, s.AverageOverhead, d.OverheadStdDev),
	})
	table.Render()
	return nil
}
