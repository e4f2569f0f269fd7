package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents int
	Ready       int
	Dispatches  int // RUNNING events
	Finished    int
	Preemptions int // dispatches of a process that had already run
	// DispatchesByProcess maps process name → number of RUNNING events.
	DispatchesByProcess map[string]int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchesByProcess: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	for _, e := range st.Events {
		switch e.Kind {
		case EventReady:
			summary.Ready++
		case EventRunning:
			summary.Dispatches++
			if summary.DispatchesByProcess[e.Process] > 0 {
				summary.Preemptions++
			}
			summary.DispatchesByProcess[e.Process]++
		case EventFinished:
			summary.Finished++
		}
	}
	return summary
}
