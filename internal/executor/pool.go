package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/pingpool/internal/util"
)

// Errors returned by the pool. They alias the util sentinels so callers can
// match either.
var (
	ErrInvalidConfig  = util.ErrInvalidConfig
	ErrPoolClosed     = util.ErrPoolClosed
	ErrInterrupted    = util.ErrInterrupted
	ErrCancelled      = util.ErrCancelled
	ErrNothingPending = util.ErrNothingPending

	ErrTerminationTimeout = util.ErrTerminationTimeout
)

// State is the lifecycle state of a Pool
type State int32

const (
	// StateRunning accepts submissions
	StateRunning State = iota
	// StateDraining rejects submissions while started work finishes
	StateDraining
	// StateStopped has no live workers; nothing can start
	StateStopped
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ProbeFunc checks a single target.
// Ordinary failures are reported with Success=false and a nil error. A
// non-nil error (or a panic) is unexpected; the pool converts it into a
// failed Result.
type ProbeFunc func(ctx context.Context, id string) (Result, error)

// Observer receives pool lifecycle events. Methods are called from worker
// goroutines and must be safe for concurrent use.
type Observer interface {
	TaskStarted(id string)
	TaskFinished(result Result)
	TasksDiscarded(n int)
	ShutdownFinished(outcome ShutdownOutcome)
}

type nopObserver struct{}

func (nopObserver) TaskStarted(string) {}

func (nopObserver) TaskFinished(Result) {}

func (nopObserver) TasksDiscarded(int) {}

func (nopObserver) ShutdownFinished(ShutdownOutcome) {}

// Option configures a Pool
type Option func(*Pool)

// WithLogger sets the pool logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithObserver attaches an Observer
func WithObserver(observer Observer) Option {
	return func(p *Pool) {
		if observer != nil {
			p.observer = observer
		}
	}
}

// WithBaseContext sets the parent of the context handed to probes.
// ShutdownNow cancels the derived context.
func WithBaseContext(ctx context.Context) Option {
	return func(p *Pool) {
		if ctx != nil {
			p.baseCtx = ctx
		}
	}
}

// Future is the pending result of a submitted work item
type Future struct {
	id     string
	done   chan struct{}
	result Result
	err    error
}

func newFuture(id string) *Future {
	return &Future{id: id, done: make(chan struct{})}
}

// ID returns the work item identifier
func (f *Future) ID() string {
	return f.id
}

// Done is closed once the result is available or the item was discarded
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available. It returns ErrCancelled if the
// item was discarded by ShutdownNow and ErrInterrupted if ctx ends first.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: waiting for %q: %w", ErrInterrupted, f.id, ctx.Err())
	}
}

func (f *Future) complete(result Result, err error) {
	f.result = result
	f.err = err
	close(f.done)
}

// task pairs a future with its delivery options
type task struct {
	future *Future

	// publish routes the result to the completion queue read by Take
	publish bool

	// onDone runs on the worker after the future completes
	onDone func(Result)
}

// Pool runs probes on a bounded set of workers.
// Workers are started lazily, one per submission, until maxWorkers are
// live, so a pool never runs more workers than it has been given tasks.
// Results are available through the returned futures and, for Submit, in
// completion order through Take.
type Pool struct {
	maxWorkers int
	probe      ProbeFunc
	logger     *slog.Logger
	observer   Observer

	baseCtx context.Context
	ctx     context.Context
	cancel  context.CancelFunc

	// mu guards everything below
	mu           sync.Mutex
	cond         *sync.Cond
	state        State
	queue        []*task
	workers      int
	active       int
	nextWorkerID int

	// outstanding counts published tasks not yet taken or discarded
	outstanding int
	completed   []Result

	// ready holds at most one wake-up for Take
	ready chan struct{}

	// terminated is closed on the transition to StateStopped
	terminated chan struct{}
}

// NewPool creates a pool that runs probe with at most maxWorkers concurrent executions
func NewPool(maxWorkers int, probe ProbeFunc, opts ...Option) (*Pool, error) {
	if maxWorkers <= 0 {
		return nil, util.NewValidationError("maxWorkers", maxWorkers, "must be positive")
	}
	if probe == nil {
		return nil, util.NewValidationError("probe", nil, "must not be nil")
	}

	p := &Pool{
		maxWorkers: maxWorkers,
		probe:      probe,
		logger:     slog.Default(),
		observer:   nopObserver{},
		baseCtx:    context.Background(),
		ready:      make(chan struct{}, 1),
		terminated: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.cond = sync.NewCond(&p.mu)
	p.ctx, p.cancel = context.WithCancel(p.baseCtx)

	return p, nil
}

// Submit queues a work item. Its result is returned by Take in completion
// order and through the returned Future.
// Returns ErrPoolClosed once Shutdown or ShutdownNow has been called.
func (p *Pool) Submit(id string) (*Future, error) {
	return p.submit(id, true, nil)
}

func (p *Pool) submit(id string, publish bool, onDone func(Result)) (*Future, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateRunning {
		return nil, fmt.Errorf("submit %q: pool is %s: %w", id, p.state, ErrPoolClosed)
	}

	f := newFuture(id)
	p.queue = append(p.queue, &task{future: f, publish: publish, onDone: onDone})
	if publish {
		p.outstanding++
	}

	if p.workers < p.maxWorkers {
		p.workers++
		p.nextWorkerID++
		go p.worker(p.nextWorkerID)
	}
	p.cond.Signal()

	p.logger.Debug("task submitted", "target", id, "queued", len(p.queue), "workers", p.workers)

	return f, nil
}

// Take blocks until the next published result completes and returns it.
// Returns ErrNothingPending if every published item has already been taken
// or was discarded, and ErrInterrupted if ctx ends first.
func (p *Pool) Take(ctx context.Context) (Result, error) {
	for {
		p.mu.Lock()
		if len(p.completed) > 0 {
			result := p.completed[0]
			p.completed[0] = Result{}
			p.completed = p.completed[1:]
			p.outstanding--
			more := len(p.completed) > 0
			p.mu.Unlock()

			if more {
				p.signal()
			}
			return result, nil
		}
		if p.outstanding == 0 {
			p.mu.Unlock()
			return Result{}, ErrNothingPending
		}
		p.mu.Unlock()

		select {
		case <-p.ready:
		case <-ctx.Done():
			return Result{}, fmt.Errorf("%w: taking result: %w", ErrInterrupted, ctx.Err())
		}
	}
}

// InvokeAll submits every item and blocks until all of them complete.
// Results are returned in submission order. Items discarded by a concurrent
// ShutdownNow are absent from the slice.
func (p *Pool) InvokeAll(ctx context.Context, ids []string) ([]Result, error) {
	return p.InvokeAllWithProgress(ctx, ids, nil)
}

// InvokeAllWithProgress is InvokeAll with a callback invoked after each item
// completes with (completed, total) counts. The callback runs on worker
// goroutines and must be safe for concurrent use.
func (p *Pool) InvokeAllWithProgress(ctx context.Context, ids []string, progressFn func(completed, total int)) ([]Result, error) {
	total := len(ids)
	var completed atomic.Int32

	var onDone func(Result)
	if progressFn != nil {
		onDone = func(Result) {
			progressFn(int(completed.Add(1)), total)
		}
	}

	futures := make([]*Future, 0, total)
	for _, id := range ids {
		f, err := p.submit(id, false, onDone)
		if err != nil {
			return nil, err
		}
		futures = append(futures, f)
	}

	results := make([]Result, 0, total)
	for _, f := range futures {
		result, err := f.Wait(ctx)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				continue
			}
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

// Shutdown stops accepting submissions. Queued and running items still
// complete. It does not wait; use AwaitTermination.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateRunning {
		return
	}

	p.state = StateDraining
	p.logger.Debug("pool draining", "queued", len(p.queue), "active", p.active)
	p.cond.Broadcast()

	if p.workers == 0 {
		p.markStopped()
	}
}

// ShutdownNow stops accepting submissions, discards every queued item that
// has not started and cancels the context of running probes. Running probes
// stop only if they honour their context. Returns the discarded identifiers.
func (p *Pool) ShutdownNow() []string {
	p.mu.Lock()
	if p.state == StateRunning {
		p.state = StateDraining
	}

	pending := p.queue
	p.queue = nil
	for _, t := range pending {
		if t.publish {
			p.outstanding--
		}
	}

	p.cond.Broadcast()
	if p.workers == 0 {
		p.markStopped()
	}
	p.mu.Unlock()

	p.cancel()
	p.signal()

	ids := make([]string, len(pending))
	for i, t := range pending {
		ids[i] = t.future.id
		t.future.complete(Result{ID: t.future.id}, fmt.Errorf("%q discarded before start: %w", t.future.id, ErrCancelled))
	}

	if len(pending) > 0 {
		p.observer.TasksDiscarded(len(pending))
	}
	p.logger.Debug("pool force-stopped", "discarded", len(pending))

	return ids
}

// AwaitTermination blocks until the pool is stopped or timeout elapses.
// It returns true if the pool stopped. An elapsed timeout is not an error.
func (p *Pool) AwaitTermination(ctx context.Context, timeout time.Duration) (bool, error) {
	select {
	case <-p.terminated:
		return true, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.terminated:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, fmt.Errorf("%w: awaiting termination: %w", ErrInterrupted, ctx.Err())
	}
}

// State returns the current lifecycle state
func (p *Pool) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// MaxWorkers returns the concurrency bound
func (p *Pool) MaxWorkers() int {
	return p.maxWorkers
}

// WorkerCount returns the number of live workers
func (p *Pool) WorkerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers
}

// Pending returns the number of queued items that have not started
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Active returns the number of probes currently executing
func (p *Pool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// worker pulls tasks until the queue is empty and the pool no longer runs
func (p *Pool) worker(workerID int) {
	p.logger.Debug("worker started", "worker_id", workerID)
	defer p.workerExited(workerID)

	for {
		t, ok := p.next()
		if !ok {
			return
		}
		p.run(workerID, t)
	}
}

func (p *Pool) next() (*task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && p.state == StateRunning {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}

	t := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	p.active++

	return t, true
}

func (p *Pool) run(workerID int, t *task) {
	id := t.future.id

	p.observer.TaskStarted(id)
	result := execute(p.ctx, p.probe, id)
	p.observer.TaskFinished(result)

	if result.Err != nil {
		p.logger.Warn("probe error", "worker_id", workerID, "target", id, "error", result.Err, "duration", result.Duration)
	} else {
		p.logger.Debug("task completed", "worker_id", workerID, "target", id, "success", result.Success, "duration", result.Duration)
	}

	// Progress callbacks fire before the future resolves
	if t.onDone != nil {
		t.onDone(result)
	}
	t.future.complete(result, nil)
	if t.publish {
		p.publish(result)
	}

	p.mu.Lock()
	p.active--
	p.mu.Unlock()
}

func (p *Pool) workerExited(workerID int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.workers--
	p.logger.Debug("worker finished", "worker_id", workerID, "remaining", p.workers)

	if p.workers == 0 && p.state != StateRunning && len(p.queue) == 0 {
		p.markStopped()
	}
}

// markStopped must be called with mu held
func (p *Pool) markStopped() {
	if p.state == StateStopped {
		return
	}
	p.state = StateStopped
	close(p.terminated)
	p.cancel()
	p.logger.Debug("pool stopped")
}

func (p *Pool) publish(result Result) {
	p.mu.Lock()
	p.completed = append(p.completed, result)
	p.mu.Unlock()
	p.signal()
}

func (p *Pool) signal() {
	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// execute runs probe once, converting errors and panics into failed results
func execute(ctx context.Context, probe ProbeFunc, id string) (result Result) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			result = Result{
				ID:       id,
				Duration: time.Since(start),
				Err:      util.WrapTargetError(id, fmt.Errorf("probe panicked: %v", rec)),
			}
		}
	}()

	result, err := probe(ctx, id)
	if err != nil {
		return Result{
			ID:       id,
			Duration: time.Since(start),
			Err:      util.WrapTargetError(id, err),
		}
	}

	if result.ID == "" {
		result.ID = id
	}
	if result.Duration == 0 {
		result.Duration = time.Since(start)
	}

	return result
}
