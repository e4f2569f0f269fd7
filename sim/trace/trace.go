package trace

import (
	"fmt"
	"io"
)

// SimulationTrace collects event records during a simulation.
type SimulationTrace struct {
	Events []EventRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace() *SimulationTrace {
	return &SimulationTrace{
		Events: make([]EventRecord, 0),
	}
}

// Record appends an event record.
func (st *SimulationTrace) Record(record EventRecord) {
	st.Events = append(st.Events, record)
}

// Lines renders every recorded event as an event-log line.
func (st *SimulationTrace) Lines() []string {
	lines := make([]string, len(st.Events))
	for i, e := range st.Events {
		lines[i] = e.String()
	}
	return lines
}

// EventLog writes each event to an output stream as it happens and, when a
// trace is attached, records it as well.
type EventLog struct {
	out   io.Writer
	trace *SimulationTrace
}

// NewEventLog creates an EventLog writing to out. Either argument may be nil.
func NewEventLog(out io.Writer, st *SimulationTrace) *EventLog {
	return &EventLog{out: out, trace: st}
}

// Emit writes the record as a line and records it.
func (l *EventLog) Emit(record EventRecord) error {
	if l.trace != nil {
		l.trace.Record(record)
	}
	if l.out == nil {
		return nil
	}
	if _, err := fmt.Fprintln(l.out, record.String()); err != nil {
		return fmt.Errorf("writing event log: %w", err)
	}
	return nil
}

// Trace returns the attached trace, or nil.
func (l *EventLog) Trace() *SimulationTrace {
	return l.trace
}
