package executor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTerminator_Graceful(t *testing.T) {
	obs := &recordingObserver{}
	pool, err := NewPool(2, latencyProbe(5*time.Millisecond, nil), WithLogger(quietLogger()), WithObserver(obs))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	for _, id := range targets(4) {
		if _, err := pool.Submit(id); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	term := NewTerminator(pool, time.Second, quietLogger())
	if term.Outcome() != OutcomeNone {
		t.Errorf("expected OutcomeNone before Terminate, got %s", term.Outcome())
	}

	outcome, err := term.Terminate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeGraceful {
		t.Errorf("expected graceful, got %s", outcome)
	}
	if pool.State() != StateStopped {
		t.Errorf("expected stopped, got %s", pool.State())
	}
	if len(term.Discarded()) != 0 {
		t.Errorf("graceful shutdown should not discard, got %v", term.Discarded())
	}

	// Queued items ran to completion
	if got := obs.finished.Load(); got != 4 {
		t.Errorf("expected 4 finished probes, got %d", got)
	}
}

func TestTerminator_SecondCallIsNoop(t *testing.T) {
	obs := &recordingObserver{}
	pool, err := NewPool(1, latencyProbe(time.Millisecond, nil), WithLogger(quietLogger()), WithObserver(obs))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	term := NewTerminator(pool, time.Second, nil)

	first, err := term.Terminate(context.Background())
	if err != nil {
		t.Fatalf("first terminate: %v", err)
	}

	// A cancelled context would make a real second run fail
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	second, err := term.Terminate(ctx)
	if err != nil {
		t.Errorf("second terminate should not error, got %v", err)
	}
	if first != second {
		t.Errorf("outcome changed from %s to %s", first, second)
	}
	if got := obs.shutdowns.Load(); got != 1 {
		t.Errorf("expected one shutdown notification, got %d", got)
	}
}

func TestTerminator_EscalatesToForced(t *testing.T) {
	// Honours cancellation but otherwise outlasts the grace period
	probe := func(ctx context.Context, id string) (Result, error) {
		select {
		case <-time.After(5 * time.Second):
			return Result{ID: id, Success: true}, nil
		case <-ctx.Done():
			return Result{ID: id}, nil
		}
	}

	pool, err := NewPool(1, probe, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	for _, id := range targets(3) {
		if _, err := pool.Submit(id); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	waitFor(t, "probe to start", func() bool { return pool.Active() == 1 })

	term := NewTerminator(pool, 30*time.Millisecond, quietLogger())
	outcome, err := term.Terminate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeForced {
		t.Errorf("expected forced, got %s", outcome)
	}
	if got := len(term.Discarded()); got != 2 {
		t.Errorf("expected 2 discarded, got %d", got)
	}
	if pool.State() != StateStopped {
		t.Errorf("expected stopped, got %s", pool.State())
	}
}

func TestTerminator_Incomplete(t *testing.T) {
	gate := newGateProbe()
	obs := &recordingObserver{}
	pool, err := NewPool(1, gate.Probe, WithLogger(quietLogger()), WithObserver(obs))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	if _, err := pool.Submit("sim://stuck"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitFor(t, "probe to start", func() bool { return gate.started.Load() == 1 })

	term := NewTerminator(pool, 15*time.Millisecond, quietLogger())
	outcome, err := term.Terminate(context.Background())
	if err != nil {
		t.Errorf("a pool that outlives shutdown is not an error, got %v", err)
	}
	if outcome != OutcomeIncomplete {
		t.Errorf("expected incomplete, got %s", outcome)
	}
	if pool.State() == StateStopped {
		t.Error("pool should still have a live worker")
	}

	obs.mu.Lock()
	if len(obs.outcomes) != 1 || obs.outcomes[0] != OutcomeIncomplete {
		t.Errorf("observer outcomes = %v", obs.outcomes)
	}
	obs.mu.Unlock()

	gate.Open()
	if ok, _ := pool.AwaitTermination(context.Background(), 2*time.Second); !ok {
		t.Fatal("pool should stop once the probe returns")
	}
}

func TestTerminator_InterruptedStillForcesStop(t *testing.T) {
	probe := func(ctx context.Context, id string) (Result, error) {
		<-ctx.Done()
		return Result{ID: id}, nil
	}

	pool, err := NewPool(1, probe, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	for _, id := range targets(3) {
		if _, err := pool.Submit(id); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	waitFor(t, "probe to start", func() bool { return pool.Active() == 1 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	term := NewTerminator(pool, time.Second, quietLogger())
	outcome, err := term.Terminate(ctx)
	if !errors.Is(err, ErrInterrupted) {
		t.Errorf("expected ErrInterrupted, got %v", err)
	}
	if outcome != OutcomeForced {
		t.Errorf("expected forced, got %s", outcome)
	}
	if got := len(term.Discarded()); got != 2 {
		t.Errorf("expected 2 discarded, got %d", got)
	}

	if ok, _ := pool.AwaitTermination(context.Background(), 2*time.Second); !ok {
		t.Fatal("pool should stop after the forced phase")
	}
}

func TestShutdownOutcome_String(t *testing.T) {
	tests := map[ShutdownOutcome]string{
		OutcomeNone:         "none",
		OutcomeGraceful:     "graceful",
		OutcomeForced:       "forced",
		OutcomeIncomplete:   "incomplete",
		ShutdownOutcome(42): "outcome(42)",
	}
	for outcome, want := range tests {
		if got := outcome.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
