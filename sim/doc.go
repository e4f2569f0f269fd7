// Package sim provides the core time-stepped simulation engine for procsim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (pending → admitted → ready → running → finished)
//   - scheduler.go: SJF and Round-Robin selection of the running process
//   - simulator.go: The cycle loop (completion, admission, allocation, scheduling)
//
// # Architecture
//
// The sim package defines interfaces and the engine; helpers live in
// sub-packages:
//   - sim/trace/: Event records and the event log (READY, RUNNING, FINISHED)
//   - sim/workload/: Trace-file parsing, synthetic traces and results export
//   - sim/realproc/: Mirroring simulated processes onto real OS processes
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - MemoryManager: allocation and release (best-fit pool, infinite memory)
//   - Scheduler: pick the process that runs for the next quantum
//   - ProcessController: create, resume, suspend and terminate mirrored OS processes
package sim
