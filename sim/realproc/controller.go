package realproc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/procsim/procsim/sim"
)

// statusPollInterval is how often Suspend checks whether the process has stopped.
const statusPollInterval = 5 * time.Millisecond

// ErrUnknownProcess is returned for a process the controller has not started
// or has already discarded.
var ErrUnknownProcess = errors.New("no OS process for simulated process")

// handle is the controller's view of one spawned subordinate.
type handle struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	pid    int
}

// Controller implements sim.ProcessController with real OS processes.
// Not thread-safe; the simulator drives it from a single goroutine.
type Controller struct {
	Command []string      // subordinate program and leading arguments; the process name is appended
	Timeout time.Duration // bound on every blocking wait
	procs   map[string]*handle
}

// NewController creates a Controller spawning command for each process.
func NewController(command []string, timeout time.Duration) *Controller {
	if len(command) == 0 {
		panic("NewController: command must not be empty")
	}
	return &Controller{
		Command: command,
		Timeout: timeout,
		procs:   make(map[string]*handle),
	}
}

var _ sim.ProcessController = (*Controller)(nil)

// Create spawns the subordinate for p, sends the clock and verifies the ack.
func (c *Controller) Create(ctx context.Context, p *sim.Process, clock int64) error {
	if _, exists := c.procs[p.Name]; exists {
		return fmt.Errorf("creating %s: OS process already exists", p.Name)
	}
	args := append(append([]string{}, c.Command[1:]...), p.Name)
	cmd := exec.Command(c.Command[0], args...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("creating %s: %w", p.Name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating %s: %w", p.Name, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("creating %s: %w", p.Name, err)
	}

	h := &handle{cmd: cmd, stdin: stdin, stdout: stdout, pid: cmd.Process.Pid}
	c.procs[p.Name] = h
	p.PID.Set(h.pid)
	logrus.Debugf("[tick %07d] Spawned %s as pid %d", clock, p.Name, h.pid)

	if err := writeClock(h.stdin, clock); err != nil {
		c.discard(p.Name)
		return fmt.Errorf("creating %s: %w", p.Name, err)
	}
	return c.readAck(ctx, p.Name, h, clock)
}

// Resume sends the clock and SIGCONT, then verifies the ack.
func (c *Controller) Resume(ctx context.Context, p *sim.Process, clock int64) error {
	h, err := c.lookup(p.Name)
	if err != nil {
		return err
	}
	if err := writeClock(h.stdin, clock); err != nil {
		return fmt.Errorf("resuming %s: %w", p.Name, err)
	}
	if err := unix.Kill(h.pid, unix.SIGCONT); err != nil {
		return fmt.Errorf("resuming %s: %w", p.Name, err)
	}
	return c.readAck(ctx, p.Name, h, clock)
}

// Suspend sends the clock and SIGTSTP, then blocks until the OS reports the
// process as stopped.
func (c *Controller) Suspend(ctx context.Context, p *sim.Process, clock int64) error {
	h, err := c.lookup(p.Name)
	if err != nil {
		return err
	}
	if err := writeClock(h.stdin, clock); err != nil {
		return fmt.Errorf("suspending %s: %w", p.Name, err)
	}
	if err := unix.Kill(h.pid, unix.SIGTSTP); err != nil {
		return fmt.Errorf("suspending %s: %w", p.Name, err)
	}
	if err := c.waitStopped(ctx, h.pid); err != nil {
		return fmt.Errorf("suspending %s: %w", p.Name, err)
	}
	return nil
}

// Terminate sends the clock and SIGTERM, collects the trailer and reaps the process.
func (c *Controller) Terminate(ctx context.Context, p *sim.Process, clock int64) (string, error) {
	h, err := c.lookup(p.Name)
	if err != nil {
		return "", err
	}
	defer delete(c.procs, p.Name)

	if err := writeClock(h.stdin, clock); err != nil {
		c.discard(p.Name)
		return "", fmt.Errorf("terminating %s: %w", p.Name, err)
	}
	if err := unix.Kill(h.pid, unix.SIGTERM); err != nil {
		c.discard(p.Name)
		return "", fmt.Errorf("terminating %s: %w", p.Name, err)
	}
	// the pipe must be drained before Wait closes it
	trailer, err := readWithTimeout(ctx, h.stdout, TrailerLength, c.Timeout)
	if err != nil {
		c.discard(p.Name)
		return "", fmt.Errorf("terminating %s: %w", p.Name, err)
	}
	_ = h.stdin.Close()
	if err := c.wait(h); err != nil {
		logrus.Warnf("[tick %07d] %s (pid %d) exited uncleanly: %v", clock, p.Name, h.pid, err)
	}
	return string(trailer), nil
}

// Close kills every subordinate still alive.
func (c *Controller) Close() {
	for name := range c.procs {
		c.discard(name)
	}
}

func (c *Controller) lookup(name string) (*handle, error) {
	h, ok := c.procs[name]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownProcess, name)
	}
	return h, nil
}

// readAck reads and verifies the 1-byte acknowledgement. A timeout leaves the
// stdout pipe in an unknown state, so the process is discarded.
func (c *Controller) readAck(ctx context.Context, name string, h *handle, clock int64) error {
	ack, err := readWithTimeout(ctx, h.stdout, 1, c.Timeout)
	if err != nil {
		c.discard(name)
		return fmt.Errorf("acknowledgement from %s: %w", name, err)
	}
	return verifyAck(ack[0], clock)
}

// waitStopped polls the process status until it reports stopped.
func (c *Controller) waitStopped(ctx context.Context, pid int) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()
	for {
		status, err := proc.StatusWithContext(ctx)
		if err == nil && slices.Contains(status, process.Stop) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("pid %d did not stop (status %v): %w", pid, status, ctx.Err())
		case <-ticker.C:
		}
	}
}

// wait reaps the process, killing it if it does not exit in time.
func (c *Controller) wait(h *handle) error {
	done := make(chan error, 1)
	go func() { done <- h.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(c.Timeout):
		_ = h.cmd.Process.Kill()
		return <-done
	}
}

// discard kills and reaps a subordinate whose pipes can no longer be trusted.
func (c *Controller) discard(name string) {
	h, ok := c.procs[name]
	if !ok {
		return
	}
	delete(c.procs, name)
	_ = h.cmd.Process.Kill()
	_ = h.stdin.Close()
	_ = h.cmd.Wait()
}
