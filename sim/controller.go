package sim

import (
	"context"
	"errors"
)

// ErrIntegrity reports that a mirrored OS process acknowledged a handshake
// with the wrong byte. It is logged and the simulation carries on.
var ErrIntegrity = errors.New("handshake integrity mismatch")

// ProcessController mirrors lifecycle transitions onto real OS processes.
// Each call carries the simulation clock so the mirrored process can
// acknowledge it. The simulated state machine stays authoritative: the
// Simulator logs controller errors but never rolls back its own bookkeeping.
type ProcessController interface {
	// Create starts the OS process for p on its first dispatch.
	Create(ctx context.Context, p *Process, clock int64) error
	// Resume continues a previously suspended OS process.
	Resume(ctx context.Context, p *Process, clock int64) error
	// Suspend stops the OS process after Round-Robin preemption.
	Suspend(ctx context.Context, p *Process, clock int64) error
	// Terminate ends the OS process and returns its trailer for the event log.
	Terminate(ctx context.Context, p *Process, clock int64) (string, error)
}

// NoopController is the ProcessController used when real-process mode is off.
type NoopController struct{}

func (NoopController) Create(context.Context, *Process, int64) error { return nil }

func (NoopController) Resume(context.Context, *Process, int64) error { return nil }

func (NoopController) Suspend(context.Context, *Process, int64) error { return nil }

func (NoopController) Terminate(context.Context, *Process, int64) (string, error) { return "", nil }
