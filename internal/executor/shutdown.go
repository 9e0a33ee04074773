package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ShutdownOutcome describes how a pool shutdown ended
type ShutdownOutcome int

const (
	// OutcomeNone means shutdown has not run yet
	OutcomeNone ShutdownOutcome = iota
	// OutcomeGraceful means the pool drained within the first grace period
	OutcomeGraceful
	// OutcomeForced means the pool stopped after ShutdownNow
	OutcomeForced
	// OutcomeIncomplete means the pool still had live workers after both waits
	OutcomeIncomplete
)

// String returns the outcome name
func (o ShutdownOutcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeGraceful:
		return "graceful"
	case OutcomeForced:
		return "forced"
	case OutcomeIncomplete:
		return "incomplete"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Terminator runs the two-phase shutdown of a pool at most once.
//
// Phase one calls Shutdown and waits up to the grace period. If the pool has
// not stopped, phase two calls ShutdownNow and waits one more grace period.
// A pool that is still alive after that is logged and left behind; the
// caller continues with whatever results it already has.
type Terminator struct {
	pool   *Pool
	grace  time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	done      bool
	outcome   ShutdownOutcome
	discarded []string
	err       error
}

// NewTerminator creates a Terminator for pool
func NewTerminator(pool *Pool, grace time.Duration, logger *slog.Logger) *Terminator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Terminator{
		pool:   pool,
		grace:  grace,
		logger: logger,
	}
}

// Terminate shuts the pool down. Calls after the first return the first
// call's outcome without touching the pool.
//
// If ctx ends during a wait, the pool is still force-stopped and the
// returned error wraps ErrInterrupted.
func (t *Terminator) Terminate(ctx context.Context) (ShutdownOutcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.done {
		t.done = true
		t.outcome, t.err = t.terminate(ctx)
		t.pool.observer.ShutdownFinished(t.outcome)
	}
	return t.outcome, t.err
}

// Outcome returns the result of the completed shutdown, or OutcomeNone
func (t *Terminator) Outcome() ShutdownOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

// Discarded returns the identifiers dropped by the forced phase
func (t *Terminator) Discarded() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.discarded
}

func (t *Terminator) terminate(ctx context.Context) (ShutdownOutcome, error) {
	t.pool.Shutdown()

	stopped, err := t.pool.AwaitTermination(ctx, t.grace)
	if err != nil {
		// Interrupted: still reclaim the pool before reporting
		t.discarded = t.pool.ShutdownNow()
		t.logger.Warn("shutdown wait interrupted, forced stop", "discarded", len(t.discarded), "error", err)
		return OutcomeForced, err
	}
	if stopped {
		t.logger.Debug("pool terminated gracefully")
		return OutcomeGraceful, nil
	}

	t.logger.Warn("pool did not drain within grace period, forcing stop",
		"grace_period", t.grace,
		"active", t.pool.Active(),
		"queued", t.pool.Pending())

	t.discarded = t.pool.ShutdownNow()

	stopped, err = t.pool.AwaitTermination(ctx, t.grace)
	if err != nil {
		return OutcomeForced, err
	}
	if stopped {
		t.logger.Info("pool force-stopped", "discarded", len(t.discarded))
		return OutcomeForced, nil
	}

	t.logger.Error("pool did not terminate",
		"grace_period", t.grace,
		"active", t.pool.Active(),
		"error", ErrTerminationTimeout)

	return OutcomeIncomplete, nil
}
