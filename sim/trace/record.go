// Package trace provides event records for the process lifecycle and their
// event-log rendering. It has no dependencies on sim/ and stores pure data types.
package trace

import "fmt"

// EventKind names a lifecycle transition written to the event log.
type EventKind string

const (
	EventReady           EventKind = "READY"
	EventRunning         EventKind = "RUNNING"
	EventFinished        EventKind = "FINISHED"
	EventFinishedProcess EventKind = "FINISHED-PROCESS"
)

// EventRecord captures a single lifecycle transition.
// Only the fields relevant to Kind are rendered.
type EventRecord struct {
	Clock   int64
	Kind    EventKind
	Process string

	AssignedAt    int    // READY: start of the memory allocation
	RemainingTime int64  // RUNNING: service time still owed
	ProcRemaining int    // FINISHED: processes left in the input and ready queues
	Digest        string // FINISHED-PROCESS: trailer reported by the mirrored OS process
}

// String renders the record as one event-log line.
func (r EventRecord) String() string {
	prefix := fmt.Sprintf("%d,%s,process_name=%s", r.Clock, r.Kind, r.Process)
	switch r.Kind {
	case EventReady:
		return fmt.Sprintf("%s,assigned_at=%d", prefix, r.AssignedAt)
	case EventRunning:
		return fmt.Sprintf("%s,remaining_time=%d", prefix, r.RemainingTime)
	case EventFinished:
		return fmt.Sprintf("%s,proc_remaining=%d", prefix, r.ProcRemaining)
	case EventFinishedProcess:
		return fmt.Sprintf("%s,sha=%s", prefix, r.Digest)
	default:
		return prefix
	}
}
