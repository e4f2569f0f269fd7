// sim/memory.go
package sim

import (
	"errors"
	"fmt"

	"github.com/markphelps/optional"
	"github.com/sirupsen/logrus"
)

// DefaultMemorySize is the number of allocation units in the memory pool.
const DefaultMemorySize = 2048

// Memory strategy names accepted by NewMemoryManager.
const (
	MemoryInfinite = "infinite"
	MemoryBestFit  = "best-fit"
)

// ValidMemoryStrategies is the set of recognized memory strategy names.
var ValidMemoryStrategies = map[string]bool{MemoryInfinite: true, MemoryBestFit: true}

// ErrNotAllocated is returned when releasing a process that holds no memory.
var ErrNotAllocated = errors.New("process has no memory allocated")

// MemoryManager abstracts memory allocation for the simulator.
// BestFitMemory and InfiniteMemory both implement this.
type MemoryManager interface {
	// Allocate places the process in memory; false means it must wait.
	Allocate(p *Process) bool
	// Release returns the process's units to the pool.
	Release(p *Process) error
	// UsedUnits returns the number of allocation units currently full.
	UsedUnits() int
	// Usage returns the percentage of the pool in use, rounded up.
	Usage() int
	fmt.Stringer
}

// NewMemoryManager creates a MemoryManager by strategy name.
// Panics on unrecognized names; callers validate configuration first.
func NewMemoryManager(strategy string, size int) MemoryManager {
	switch strategy {
	case MemoryInfinite:
		return &InfiniteMemory{}
	case MemoryBestFit:
		return NewBestFitMemory(size)
	default:
		panic(fmt.Sprintf("unknown memory strategy %q", strategy))
	}
}

// InfiniteMemory treats every process as allocated the moment it arrives.
type InfiniteMemory struct{}

func (m *InfiniteMemory) Allocate(_ *Process) bool { return true }

func (m *InfiniteMemory) Release(_ *Process) error { return nil }

func (m *InfiniteMemory) UsedUnits() int { return 0 }

func (m *InfiniteMemory) String() string { return "infinite" }

func (m *InfiniteMemory) Usage() int { return 0 }

// AllocationUnit is a single cell of the memory pool.
type AllocationUnit byte

const (
	UnitFree AllocationUnit = '0'
	UnitFull AllocationUnit = '1'
)

// BestFitMemory is a fixed-size pool of allocation units with best-fit placement.
// Units carry no ownership: a process's MemoryAddress and MemoryRequirement
// identify the run it holds.
type BestFitMemory struct {
	Units []AllocationUnit
	used  int
}

// NewBestFitMemory creates a pool with every unit free.
func NewBestFitMemory(size int) *BestFitMemory {
	units := make([]AllocationUnit, size)
	for i := range units {
		units[i] = UnitFree
	}
	return &BestFitMemory{Units: units}
}

// bestFit scans the pool once and returns the start of the shortest free run
// of at least req units. Runs of equal length resolve to the earliest one.
func (m *BestFitMemory) bestFit(req int) (int, bool) {
	bestStart, bestLen := -1, len(m.Units)+1
	runStart, runLen := 0, 0
	for i, u := range m.Units {
		if u == UnitFree {
			if runLen == 0 {
				runStart = i
			}
			runLen++
		}
		// a run ends at a full unit or at the end of the pool
		if (u == UnitFull || i == len(m.Units)-1) && runLen > 0 {
			if runLen >= req && runLen < bestLen {
				bestStart, bestLen = runStart, runLen
			}
			runLen = 0
		}
	}
	return bestStart, bestStart >= 0
}

// Allocate places the process at the start of the best-fitting free run.
// On failure the pool and the process are left untouched.
func (m *BestFitMemory) Allocate(p *Process) bool {
	start, ok := m.bestFit(p.MemoryRequirement)
	if !ok {
		if p.MemoryRequirement > 0 {
			logrus.Debugf("Not enough contiguous memory for %s (%d units)", p.Name, p.MemoryRequirement)
			return false
		}
		// zero-sized requests fit anywhere, even in a full pool
		start = 0
	}
	for i := start; i < start+p.MemoryRequirement; i++ {
		m.Units[i] = UnitFull
	}
	m.used += p.MemoryRequirement
	p.MemoryAddress.Set(start)
	return true
}

// Release frees the run held by the process and clears its address.
func (m *BestFitMemory) Release(p *Process) error {
	addr, err := p.MemoryAddress.Get()
	if err != nil {
		return fmt.Errorf("releasing %s: %w", p.Name, ErrNotAllocated)
	}
	end := addr + p.MemoryRequirement
	if addr < 0 || end > len(m.Units) {
		return fmt.Errorf("releasing %s: run [%d, %d) outside pool of %d units", p.Name, addr, end, len(m.Units))
	}
	for i := addr; i < end; i++ {
		m.Units[i] = UnitFree
	}
	m.used -= p.MemoryRequirement
	p.MemoryAddress = optional.Int{}
	return nil
}

// UsedUnits returns the number of full units.
func (m *BestFitMemory) UsedUnits() int {
	return m.used
}

// Usage returns the percentage of full units, rounded up.
func (m *BestFitMemory) Usage() int {
	if len(m.Units) == 0 {
		return 0
	}
	return (m.used*100 + len(m.Units) - 1) / len(m.Units)
}

// String renders the pool as a run of '0' (free) and '1' (full) characters.
func (m *BestFitMemory) String() string {
	b := make([]byte, len(m.Units))
	for i, u := range m.Units {
		b[i] = byte(u)
	}
	return string(b)
}
