// Package realproc mirrors simulated processes onto real OS processes.
//
// The simulator and each subordinate process talk over the subordinate's
// stdin/stdout. Every transition starts with the simulation clock written as
// a 4-byte big-endian integer, followed by a signal:
//
//	create     clock             -> 1 ack byte (low byte of the clock)
//	resume     clock + SIGCONT   -> 1 ack byte
//	suspend    clock + SIGTSTP   -> process reaches the stopped state
//	terminate  clock + SIGTERM   -> 64-byte trailer, then exit
package realproc

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/procsim/procsim/sim"
)

// TrailerLength is the number of bytes a subordinate writes before exiting.
const TrailerLength = 64

// encodeClock renders the clock as the 4-byte big-endian handshake message.
func encodeClock(clock int64) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(clock))
	return buf
}

// writeClock sends the clock to a subordinate.
func writeClock(w io.Writer, clock int64) error {
	if _, err := w.Write(encodeClock(clock)); err != nil {
		return fmt.Errorf("sending clock %d: %w", clock, err)
	}
	return nil
}

// readClock receives a clock message.
func readClock(r io.Reader) (uint32, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// verifyAck checks that the acknowledgement echoes the low byte of the clock.
func verifyAck(ack byte, clock int64) error {
	if want := byte(clock); ack != want {
		return fmt.Errorf("%w: sent low byte %#02x, got %#02x", sim.ErrIntegrity, want, ack)
	}
	return nil
}

// readWithTimeout reads exactly n bytes, giving up when the timeout or the
// context expires. On timeout the reading goroutine stays blocked until r is
// closed, so callers must discard r afterwards.
func readWithTimeout(ctx context.Context, r io.Reader, n int, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		buf []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		buf := make([]byte, n)
		_, err := io.ReadFull(r, buf)
		ch <- result{buf: buf, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("reading %d bytes: %w", n, res.err)
		}
		return res.buf, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for %d bytes: %w", n, ctx.Err())
	}
}
