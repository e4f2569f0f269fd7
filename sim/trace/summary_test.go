package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	// GIVEN no trace at all
	// WHEN summarized
	summary := Summarize(nil)

	// THEN all counts are zero and the map is usable
	if summary.TotalEvents != 0 || summary.Dispatches != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.DispatchesByProcess == nil {
		t.Error("expected non-nil dispatch map")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a round-robin style trace where A is dispatched twice
	st := NewSimulationTrace()
	st.Record(EventRecord{Clock: 0, Kind: EventReady, Process: "A"})
	st.Record(EventRecord{Clock: 0, Kind: EventReady, Process: "B"})
	st.Record(EventRecord{Clock: 0, Kind: EventRunning, Process: "A"})
	st.Record(EventRecord{Clock: 1, Kind: EventRunning, Process: "B"})
	st.Record(EventRecord{Clock: 2, Kind: EventRunning, Process: "A"})
	st.Record(EventRecord{Clock: 3, Kind: EventFinished, Process: "A"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalEvents != 6 {
		t.Errorf("expected 6 events, got %d", summary.TotalEvents)
	}
	if summary.Ready != 2 {
		t.Errorf("expected 2 ready, got %d", summary.Ready)
	}
	if summary.Dispatches != 3 {
		t.Errorf("expected 3 dispatches, got %d", summary.Dispatches)
	}
	if summary.Preemptions != 1 {
		t.Errorf("expected 1 preemption, got %d", summary.Preemptions)
	}
	if summary.Finished != 1 {
		t.Errorf("expected 1 finished, got %d", summary.Finished)
	}
	if summary.DispatchesByProcess["A"] != 2 || summary.DispatchesByProcess["B"] != 1 {
		t.Errorf("unexpected dispatch distribution %v", summary.DispatchesByProcess)
	}
}
