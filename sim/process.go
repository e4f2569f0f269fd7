// Defines the Process struct that models a single simulated process.
// Tracks arrival, service demand, memory placement and lifecycle state.

package sim

import (
	"fmt"

	"github.com/markphelps/optional"
)

// MaxNameLength is the longest process name accepted from a trace.
const MaxNameLength = 8

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StatePending  ProcessState = "pending"  // in the trace, not yet arrived
	StateAdmitted ProcessState = "admitted" // in the input queue, no memory yet
	StateReady    ProcessState = "ready"    // memory allocated, in the ready queue
	StateRunning  ProcessState = "running"  // occupying the CPU
	StateFinished ProcessState = "finished"
)

// Process models a single process's lifecycle in the simulation.
type Process struct {
	Name string // Unique identifier, at most MaxNameLength characters

	ArrivalTime       int64 // Time at which the process becomes known to the system
	ServiceTime       int64 // Total CPU time required
	RemainingTime     int64 // CPU time still owed; completion once it drops to <= 0
	MemoryRequirement int   // Contiguous allocation units required

	// MemoryAddress is the start of the process's allocation; empty until
	// allocated and cleared again on release.
	MemoryAddress optional.Int
	// PID of the mirrored OS process; empty until it first runs in real-process mode.
	PID optional.Int

	State          ProcessState
	Dispatches     int   // Number of times the process has been given the CPU
	CompletionTime int64 // Clock value at which the process finished
}

// NewProcess creates a pending process with its full service time remaining.
func NewProcess(name string, arrivalTime, serviceTime int64, memoryRequirement int) *Process {
	return &Process{
		Name:              name,
		ArrivalTime:       arrivalTime,
		ServiceTime:       serviceTime,
		RemainingTime:     serviceTime,
		MemoryRequirement: memoryRequirement,
		State:             StatePending,
	}
}

// Turnaround returns completion time minus arrival time.
func (p *Process) Turnaround() int64 {
	return p.CompletionTime - p.ArrivalTime
}

// Overhead returns turnaround divided by the original service time.
func (p *Process) Overhead() float64 {
	return float64(p.Turnaround()) / float64(p.ServiceTime)
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (Name: %s, State: %s, Remaining: %d, ArrivalTime: %d, Address: %d)",
		p.Name, p.State, p.RemainingTime, p.ArrivalTime, p.MemoryAddress.OrElse(-1))
}
