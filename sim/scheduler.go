package sim

import (
	"fmt"
)

// Scheduler names accepted by NewScheduler.
const (
	SchedulerSJF        = "SJF"
	SchedulerRoundRobin = "RR"
)

// ValidSchedulers is the set of recognized scheduler names.
var ValidSchedulers = map[string]bool{SchedulerSJF: true, SchedulerRoundRobin: true}

// IsValidScheduler returns true if name is a recognized scheduler.
func IsValidScheduler(name string) bool {
	return ValidSchedulers[name]
}

// Decision is the outcome of one scheduling pass.
type Decision struct {
	Next      *Process // process in the running slot after the pass (nil = idle)
	Preempted *Process // process moved from the running slot back to the ready queue
	Changed   bool     // true if Next differs from the process that was running
}

// Scheduler picks the process that occupies the CPU for the next quantum.
// Called once per cycle. Implementations only reorder the ready queue and the
// running slot; logging and process control are left to the Simulator.
type Scheduler interface {
	Select(ready *RingQueue[*Process], running *Process) Decision
}

// SJFScheduler is non-preemptive Shortest-Job-First: when the CPU is idle it
// picks the ready process with the least remaining time, then earlier arrival,
// then lexicographically smaller name.
// Warning: SJF can starve long processes under sustained load.
type SJFScheduler struct{}

func (s *SJFScheduler) Select(ready *RingQueue[*Process], running *Process) Decision {
	if running != nil || ready.Len() == 0 {
		return Decision{Next: running}
	}
	best := 0
	for i := 1; i < ready.Len(); i++ {
		if shorterJob(ready.PeekAt(i), ready.PeekAt(best)) {
			best = i
		}
	}
	return Decision{Next: ready.RemoveAt(best), Changed: true}
}

// shorterJob reports whether a should run before b under SJF.
func shorterJob(a, b *Process) bool {
	if a.RemainingTime != b.RemainingTime {
		return a.RemainingTime < b.RemainingTime
	}
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.Name < b.Name
}

// RoundRobinScheduler rotates the CPU among ready processes every quantum.
// A running process keeps the CPU only while nothing else is ready.
type RoundRobinScheduler struct{}

func (r *RoundRobinScheduler) Select(ready *RingQueue[*Process], running *Process) Decision {
	if ready.Len() == 0 {
		return Decision{Next: running}
	}
	var preempted *Process
	if running != nil {
		ready.Enqueue(running)
		preempted = running
	}
	next, _ := ready.Dequeue()
	return Decision{Next: next, Preempted: preempted, Changed: true}
}

// NewScheduler creates a Scheduler by name.
// Valid names: "SJF", "RR".
// Panics on unrecognized names.
func NewScheduler(name string) Scheduler {
	if !IsValidScheduler(name) {
		panic(fmt.Sprintf("unknown scheduler %q", name))
	}
	switch name {
	case SchedulerSJF:
		return &SJFScheduler{}
	case SchedulerRoundRobin:
		return &RoundRobinScheduler{}
	default:
		panic(fmt.Sprintf("unhandled scheduler %q", name))
	}
}
