// Tracks simulation-wide and per-process performance metrics such as
// turnaround, overhead and makespan.

package sim

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrNoCompletedProcesses is returned when statistics are requested before
// any process has finished.
var ErrNoCompletedProcesses = errors.New("no processes completed")

// CompletionRecord holds the per-process figures captured when a process finishes.
type CompletionRecord struct {
	Name           string
	ArrivalTime    int64
	ServiceTime    int64
	CompletionTime int64
	Turnaround     int64
	Overhead       float64
}

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	CompletedProcesses int     // Number of processes finished
	TotalTurnaround    int64   // Sum of (completion - arrival)
	TotalOverhead      float64 // Sum of turnaround / service time
	MaxOverhead        float64 // Largest turnaround / service time seen
	Makespan           int64   // Clock value when the simulation ended
	PeakMemoryUsage    int     // Highest percentage of the pool in use

	Completions []CompletionRecord // in completion order
}

// Summary holds the final statistics.
type Summary struct {
	CompletedProcesses int
	AverageTurnaround  int64 // rounded up
	MaxOverhead        float64
	AverageOverhead    float64
	Makespan           int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		Completions: make([]CompletionRecord, 0),
	}
}

// RecordCompletion accumulates the turnaround and overhead of a finished process.
// Overhead is computed against the original service time.
func (m *Metrics) RecordCompletion(p *Process) {
	m.RecordResult(CompletionRecord{
		Name:           p.Name,
		ArrivalTime:    p.ArrivalTime,
		ServiceTime:    p.ServiceTime,
		CompletionTime: p.CompletionTime,
		Turnaround:     p.Turnaround(),
		Overhead:       p.Overhead(),
	})
}

// RecordResult accumulates an already computed completion record, e.g. one
// loaded from exported results.
func (m *Metrics) RecordResult(r CompletionRecord) {
	m.CompletedProcesses++
	m.TotalTurnaround += r.Turnaround
	m.TotalOverhead += r.Overhead
	if r.Overhead > m.MaxOverhead {
		m.MaxOverhead = r.Overhead
	}
	m.Completions = append(m.Completions, r)
}

// RecordMemoryUsage tracks the peak memory usage percentage.
func (m *Metrics) RecordMemoryUsage(percent int) {
	if percent > m.PeakMemoryUsage {
		m.PeakMemoryUsage = percent
	}
}

// Summary computes the final statistics.
// Returns ErrNoCompletedProcesses (with the makespan still filled in) if nothing finished.
func (m *Metrics) Summary() (Summary, error) {
	s := Summary{
		CompletedProcesses: m.CompletedProcesses,
		Makespan:           m.Makespan,
	}
	if m.CompletedProcesses == 0 {
		return s, ErrNoCompletedProcesses
	}
	n := int64(m.CompletedProcesses)
	s.AverageTurnaround = (m.TotalTurnaround + n - 1) / n
	s.MaxOverhead = roundTo2(m.MaxOverhead)
	s.AverageOverhead = roundTo2(m.TotalOverhead / float64(n))
	return s, nil
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Print writes the summary statistics in the event-log companion format:
//
//	Turnaround time <avg>
//	Time overhead <max> <avg>
//	Makespan <makespan>
func (m *Metrics) Print(w io.Writer) error {
	s, err := m.Summary()
	if errors.Is(err, ErrNoCompletedProcesses) {
		_, werr := fmt.Fprintf(w, "No processes completed\nMakespan %d\n", s.Makespan)
		return werr
	}
	_, err = fmt.Fprintf(w, "Turnaround time %d\nTime overhead %.2f %.2f\nMakespan %d\n",
		s.AverageTurnaround, s.MaxOverhead, s.AverageOverhead, s.Makespan)
	return err
}
