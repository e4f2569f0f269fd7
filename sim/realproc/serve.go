package realproc

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Serve runs the subordinate side of the protocol until SIGTERM or until the
// simulator closes stdin. Each clock message after the first is paired with
// the next signal received on signals. stopSelf must stop the calling process
// (SIGSTOP) and return once it has been continued.
func Serve(name string, in io.Reader, out io.Writer, signals <-chan os.Signal, stopSelf func() error) error {
	clock, err := readClock(in)
	if err != nil {
		return fmt.Errorf("reading initial clock: %w", err)
	}
	// every clock received, in order
	clocks := []uint32{clock}
	if err := ack(out, clock); err != nil {
		return err
	}

	for {
		clock, err := readClock(in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading clock: %w", err)
		}
		clocks = append(clocks, clock)

		switch sig := <-signals; sig {
		case unix.SIGTSTP:
			if err := stopSelf(); err != nil {
				return fmt.Errorf("stopping: %w", err)
			}
		case unix.SIGCONT:
			if err := ack(out, clock); err != nil {
				return err
			}
		case unix.SIGTERM:
			if _, err := io.WriteString(out, Trailer(name, clocks)); err != nil {
				return fmt.Errorf("writing trailer: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("unexpected signal %v", sig)
		}
	}
}

// ack echoes the low byte of the clock.
func ack(out io.Writer, clock uint32) error {
	if _, err := out.Write([]byte{byte(clock)}); err != nil {
		return fmt.Errorf("writing ack: %w", err)
	}
	return nil
}

// Trailer returns the hex SHA-256 of the name and the clocks received.
// It is exactly TrailerLength characters long.
func Trailer(name string, clocks []uint32) string {
	h := sha256.New()
	h.Write([]byte(name))
	buf := make([]byte, 4)
	for _, c := range clocks {
		binary.BigEndian.PutUint32(buf, c)
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// StopSelf suspends the calling process with SIGSTOP. It returns once the
// process has been continued.
func StopSelf() error {
	return unix.Kill(os.Getpid(), unix.SIGSTOP)
}
