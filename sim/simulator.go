// sim/simulator.go
package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/procsim/procsim/sim/trace"
)

// Simulator is the core object that holds simulation time, system state, and the cycle loop.
type Simulator struct {
	Clock   int64
	Quantum int64
	// Arrivals holds the processes that have not arrived yet, in trace order
	Arrivals *TraceCursor
	// InputQ aka processes that arrived but are still waiting for memory
	InputQ *RingQueue[*Process]
	// ReadyQ holds processes with memory allocated, waiting for the CPU
	ReadyQ *RingQueue[*Process]
	// Running is the process occupying the CPU, nil when idle
	Running    *Process
	Memory     MemoryManager
	Scheduler  Scheduler
	Controller ProcessController
	Metrics    *Metrics
	Events     *trace.EventLog
	StepCount  int
	// MaxSteps bounds the number of cycles; exceeding it means the loop is stuck
	MaxSteps int
	// mirrored is true when a real ProcessController is attached
	mirrored bool
}

// NewSimulator builds a simulator for the given trace. A nil events log
// discards events; a nil controller disables real-process mirroring.
func NewSimulator(cfg SimConfig, procs []*Process, events *trace.EventLog, controller ProcessController) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if cfg.MemoryStrategy == MemoryBestFit {
		for _, p := range procs {
			if p.MemoryRequirement > cfg.MemorySize {
				return nil, fmt.Errorf("process %s requires %d units but memory holds %d", p.Name, p.MemoryRequirement, cfg.MemorySize)
			}
		}
	}
	if events == nil {
		events = trace.NewEventLog(nil, nil)
	}
	mirrored := controller != nil
	if controller == nil {
		controller = NoopController{}
	}
	return &Simulator{
		Clock:      0,
		Quantum:    cfg.Quantum,
		Arrivals:   NewTraceCursor(procs),
		InputQ:     NewRingQueue[*Process](),
		ReadyQ:     NewRingQueue[*Process](),
		Memory:     NewMemoryManager(cfg.MemoryStrategy, cfg.MemorySize),
		Scheduler:  NewScheduler(cfg.Scheduler),
		Controller: controller,
		Metrics:    NewMetrics(),
		Events:     events,
		MaxSteps:   cycleBound(procs, cfg.Quantum),
		mirrored:   mirrored,
	}, nil
}

// cycleBound returns an upper bound on the number of cycles the trace needs:
// every process has arrived after maxArrival/q cycles and each one occupies
// the CPU for at most service/q + 1 cycles.
func cycleBound(procs []*Process, quantum int64) int {
	var maxArrival, totalService int64
	for _, p := range procs {
		maxArrival = max(maxArrival, p.ArrivalTime)
		totalService += p.ServiceTime
	}
	return int((maxArrival+totalService)/quantum) + len(procs) + 2
}

// Run executes cycles at clock 0, q, 2q, ... until every process has finished.
func (sim *Simulator) Run(ctx context.Context) error {
	logrus.Infof("[tick %07d] Simulation started with %d processes, quantum=%d", sim.Clock, sim.Arrivals.Remaining(), sim.Quantum)
	for {
		done, err := sim.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			break
		}
		if sim.StepCount >= sim.MaxSteps {
			return fmt.Errorf("simulation did not terminate within %d cycles (clock %d)", sim.MaxSteps, sim.Clock)
		}
		sim.Clock += sim.Quantum
	}
	sim.Metrics.Makespan = sim.Clock
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
	return nil
}

// Step simulates a single cycle at the current clock:
// completion of the running process, admission of arrivals, memory
// allocation, and scheduling. It reports whether the simulation is done.
func (sim *Simulator) Step(ctx context.Context) (bool, error) {
	sim.StepCount++

	if err := sim.completeRunning(ctx); err != nil {
		return false, err
	}
	sim.admitArrivals()
	if err := sim.allocateMemory(); err != nil {
		return false, err
	}
	sim.Metrics.RecordMemoryUsage(sim.Memory.Usage())
	if err := sim.schedule(ctx); err != nil {
		return false, err
	}

	logrus.Debugf("[tick %07d] input=%v ready=%v running=%v memory=%d used %s",
		sim.Clock, sim.InputQ.Len(), sim.ReadyQ.Len(), sim.Running != nil, sim.Memory.UsedUnits(), sim.Memory)
	return sim.done(), nil
}

// completeRunning charges one quantum to the running process and retires it
// once its remaining time is used up.
func (sim *Simulator) completeRunning(ctx context.Context) error {
	p := sim.Running
	if p == nil {
		return nil
	}
	p.RemainingTime -= sim.Quantum
	if p.RemainingTime > 0 {
		return nil
	}

	sim.Running = nil
	p.State = StateFinished
	p.CompletionTime = sim.Clock
	if err := sim.Events.Emit(trace.EventRecord{
		Clock:         sim.Clock,
		Kind:          trace.EventFinished,
		Process:       p.Name,
		ProcRemaining: sim.InputQ.Len() + sim.ReadyQ.Len(),
	}); err != nil {
		return err
	}
	sim.Metrics.RecordCompletion(p)
	if err := sim.Memory.Release(p); err != nil {
		return fmt.Errorf("completing %s at %d: %w", p.Name, sim.Clock, err)
	}
	logrus.Debugf("[tick %07d] Finished %s: turnaround=%d", sim.Clock, p.Name, p.Turnaround())

	if !sim.mirrored {
		return nil
	}
	digest, err := sim.Controller.Terminate(ctx, p, sim.Clock)
	if err != nil {
		sim.reportControllerError("terminate", p, err)
		return nil
	}
	return sim.Events.Emit(trace.EventRecord{
		Clock:   sim.Clock,
		Kind:    trace.EventFinishedProcess,
		Process: p.Name,
		Digest:  digest,
	})
}

// admitArrivals moves every process that has arrived by now into the input queue.
func (sim *Simulator) admitArrivals() {
	for {
		p, ok := sim.Arrivals.Peek()
		if !ok || p.ArrivalTime > sim.Clock {
			return
		}
		sim.Arrivals.Next()
		p.State = StateAdmitted
		sim.InputQ.Enqueue(p)
		logrus.Debugf("[tick %07d] << Arrival: %s", sim.Clock, p.Name)
	}
}

// allocateMemory tries to place every process in the input queue, in order.
// Processes that do not fit stay where they are and are retried next cycle.
func (sim *Simulator) allocateMemory() error {
	for i := 0; i < sim.InputQ.Len(); {
		p := sim.InputQ.PeekAt(i)
		if !sim.Memory.Allocate(p) {
			i++
			continue
		}
		sim.InputQ.RemoveAt(i)
		p.State = StateReady
		sim.ReadyQ.Enqueue(p)

		// only placements in a finite pool have an address worth logging
		addr, err := p.MemoryAddress.Get()
		if err != nil {
			continue
		}
		if err := sim.Events.Emit(trace.EventRecord{
			Clock:      sim.Clock,
			Kind:       trace.EventReady,
			Process:    p.Name,
			AssignedAt: addr,
		}); err != nil {
			return err
		}
	}
	return nil
}

// schedule runs the scheduler and mirrors the resulting switch, if any.
func (sim *Simulator) schedule(ctx context.Context) error {
	d := sim.Scheduler.Select(sim.ReadyQ, sim.Running)
	if !d.Changed {
		return nil
	}
	if d.Preempted != nil {
		d.Preempted.State = StateReady
		if sim.mirrored {
			sim.reportControllerError("suspend", d.Preempted, sim.Controller.Suspend(ctx, d.Preempted, sim.Clock))
		}
	}

	next := d.Next
	sim.Running = next
	next.State = StateRunning
	next.Dispatches++
	if err := sim.Events.Emit(trace.EventRecord{
		Clock:         sim.Clock,
		Kind:          trace.EventRunning,
		Process:       next.Name,
		RemainingTime: next.RemainingTime,
	}); err != nil {
		return err
	}

	if !sim.mirrored {
		return nil
	}
	if next.Dispatches == 1 {
		sim.reportControllerError("create", next, sim.Controller.Create(ctx, next, sim.Clock))
	} else {
		sim.reportControllerError("resume", next, sim.Controller.Resume(ctx, next, sim.Clock))
	}
	return nil
}

// reportControllerError logs a failure of the mirrored OS process.
// The simulated state is authoritative, so the run carries on.
func (sim *Simulator) reportControllerError(op string, p *Process, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrIntegrity) {
		logrus.Warnf("[tick %07d] %s %s: %v", sim.Clock, op, p.Name, err)
		return
	}
	logrus.Errorf("[tick %07d] %s %s: %v", sim.Clock, op, p.Name, err)
}

// done reports whether every process has arrived and finished.
func (sim *Simulator) done() bool {
	return sim.Arrivals.Exhausted() && sim.Running == nil && sim.InputQ.Len() == 0 && sim.ReadyQ.Len() == 0
}
