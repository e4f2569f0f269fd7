package sim

// TraceCursor walks the trace in file order. Processes are peeked before they
// are consumed so one whose arrival lies in the future stays put for a later cycle.
type TraceCursor struct {
	procs []*Process
	next  int
}

// NewTraceCursor creates a cursor positioned at the first process.
func NewTraceCursor(procs []*Process) *TraceCursor {
	return &TraceCursor{procs: procs}
}

// Peek returns the next unconsumed process without advancing.
// Returns false once the trace is exhausted.
func (c *TraceCursor) Peek() (*Process, bool) {
	if c.next >= len(c.procs) {
		return nil, false
	}
	return c.procs[c.next], true
}

// Next consumes and returns the next process, or nil if exhausted.
func (c *TraceCursor) Next() *Process {
	if c.next >= len(c.procs) {
		return nil
	}
	p := c.procs[c.next]
	c.next++
	return p
}

// Exhausted reports whether every process has been consumed.
func (c *TraceCursor) Exhausted() bool {
	return c.next >= len(c.procs)
}

// Remaining returns the number of processes not yet consumed.
func (c *TraceCursor) Remaining() int {
	return len(c.procs) - c.next
}
