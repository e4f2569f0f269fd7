package workload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/procsim/procsim/sim"
)

// maxGeneratedProcesses keeps generated names ("P" + index) within sim.MaxNameLength.
const maxGeneratedProcesses = 9_999_999

// GeneratorConfig describes a synthetic trace. Arrivals are a Poisson process
// with the given mean inter-arrival time; service times follow a clamped
// Gaussian; memory requirements are uniform over [MemoryMin, MemoryMax].
type GeneratorConfig struct {
	Seed             int64
	NumProcesses     int
	MeanInterarrival float64 // 0 means every process arrives at time 0
	ServiceMean      int64
	ServiceStdev     int64
	ServiceMin       int64
	ServiceMax       int64
	MemoryMin        int
	MemoryMax        int
}

// Validate checks that the generator produces traces ParseTrace would accept.
func (c GeneratorConfig) Validate() error {
	switch {
	case c.NumProcesses < 0 || c.NumProcesses > maxGeneratedProcesses:
		return fmt.Errorf("number of processes must be in [0, %d], got %d", maxGeneratedProcesses, c.NumProcesses)
	case c.MeanInterarrival < 0 || math.IsNaN(c.MeanInterarrival) || math.IsInf(c.MeanInterarrival, 0):
		return fmt.Errorf("mean inter-arrival time must be a non-negative number, got %v", c.MeanInterarrival)
	case c.ServiceMin <= 0:
		return fmt.Errorf("minimum service time must be positive, got %d", c.ServiceMin)
	case c.ServiceMax < c.ServiceMin:
		return fmt.Errorf("service time range [%d, %d] is empty", c.ServiceMin, c.ServiceMax)
	case c.ServiceStdev < 0:
		return errors.New("service time stdev must be non-negative")
	case c.MemoryMin < 0:
		return fmt.Errorf("minimum memory requirement must be non-negative, got %d", c.MemoryMin)
	case c.MemoryMax < c.MemoryMin:
		return fmt.Errorf("memory range [%d, %d] is empty", c.MemoryMin, c.MemoryMax)
	}
	return nil
}

// Generate draws a synthetic trace. The same config always yields the same trace.
func Generate(cfg GeneratorConfig) ([]*sim.Process, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(cfg.Seed)
	arrivals := rng.ForSubsystem(SubsystemArrivals)
	service := rng.ForSubsystem(SubsystemService)
	memory := rng.ForSubsystem(SubsystemMemory)

	procs := make([]*sim.Process, 0, cfg.NumProcesses)
	var arrival int64
	for i := 0; i < cfg.NumProcesses; i++ {
		if i > 0 && cfg.MeanInterarrival > 0 {
			arrival += int64(math.Round(arrivals.ExpFloat64() * cfg.MeanInterarrival))
		}
		procs = append(procs, sim.NewProcess(
			fmt.Sprintf("P%d", i+1),
			arrival,
			clampedGauss(service, cfg.ServiceMean, cfg.ServiceStdev, cfg.ServiceMin, cfg.ServiceMax),
			cfg.MemoryMin+memory.Intn(cfg.MemoryMax-cfg.MemoryMin+1),
		))
	}
	return procs, nil
}

// clampedGauss samples from a Gaussian clamped to [lo, hi].
func clampedGauss(rng *rand.Rand, mean, stdev, lo, hi int64) int64 {
	if lo == hi {
		return lo
	}
	val := rng.NormFloat64()*float64(stdev) + float64(mean)
	val = math.Min(float64(hi), val)
	val = math.Max(float64(lo), val)
	return int64(math.Round(val))
}

// WriteTrace writes processes in the trace-file format read by ParseTrace.
func WriteTrace(w io.Writer, procs []*sim.Process) error {
	bw := bufio.NewWriter(w)
	for _, p := range procs {
		if _, err := fmt.Fprintf(bw, "%d %s %d %d\n", p.ArrivalTime, p.Name, p.ServiceTime, p.MemoryRequirement); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}
