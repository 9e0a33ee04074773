package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aryankumar/pingpool/internal/util"
)

// Mode selects how a batch is executed and reported
type Mode string

const (
	// ModeStream reports results in completion order
	ModeStream Mode = "stream"
	// ModeBatch reports results in submission order after all complete
	ModeBatch Mode = "batch"
	// ModeSequential probes one target at a time on the calling goroutine
	ModeSequential Mode = "sequential"
)

// Modes lists every mode in the order compare runs them
var Modes = []Mode{ModeStream, ModeBatch, ModeSequential}

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeStream, ModeBatch, ModeSequential:
		return m, nil
	default:
		return "", util.NewValidationError("mode", s, "must be one of stream, batch, sequential")
	}
}

// ShutdownNotice is reported when a failure stops a fail-fast run
const ShutdownNotice = "Shutdown called"

// Reporter receives results as a strategy processes them
type Reporter interface {
	ReportResult(result Result)
	ReportNotice(msg string)
	ReportDuration(d time.Duration)
}

type nopReporter struct{}

func (nopReporter) ReportResult(Result) {}

func (nopReporter) ReportNotice(string) {}

func (nopReporter) ReportDuration(time.Duration) {}

// Report is the outcome of one batch run
type Report struct {
	Mode      Mode
	Submitted int
	Workers   int

	// Results holds every reported result in reporting order
	Results []Result

	// Duration is the wall-clock time of the whole batch
	Duration time.Duration

	// Terminated is set when a fail-fast run stopped early
	Terminated bool
	Trigger    string

	Outcome   ShutdownOutcome
	Discarded int
}

// Missing returns how many submitted items produced no reported result
func (r Report) Missing() int {
	return r.Submitted - len(r.Results)
}

// Runner executes batches of targets with one of the completion strategies
type Runner struct {
	// MaxConcurrency caps concurrent probes; pools get min(MaxConcurrency, len(ids)) workers
	MaxConcurrency int

	// GracePeriod bounds each shutdown wait
	GracePeriod time.Duration

	Probe    ProbeFunc
	Reporter Reporter
	Logger   *slog.Logger
	Observer Observer

	// FailFast makes Run use StreamFailFast for ModeStream
	FailFast bool

	// Progress is the callback Batch passes to BatchWithProgress
	Progress func(completed, total int)
}

// Run dispatches to the strategy for mode
func (r *Runner) Run(ctx context.Context, mode Mode, ids []string) (Report, error) {
	switch mode {
	case ModeStream:
		if r.FailFast {
			return r.StreamFailFast(ctx, ids)
		}
		return r.Stream(ctx, ids)
	case ModeBatch:
		return r.Batch(ctx, ids)
	case ModeSequential:
		return r.Sequential(ctx, ids)
	default:
		_, err := ParseMode(string(mode))
		return Report{Mode: mode}, err
	}
}

// Stream submits every target, then takes exactly one result per target in
// completion order, reporting each as it arrives.
func (r *Runner) Stream(ctx context.Context, ids []string) (Report, error) {
	return r.stream(ctx, ids, false)
}

// StreamFailFast is Stream that stops at the first failed result. It reports
// ShutdownNotice, shuts the pool down and never reports results of probes
// still in flight.
func (r *Runner) StreamFailFast(ctx context.Context, ids []string) (Report, error) {
	return r.stream(ctx, ids, true)
}

func (r *Runner) stream(ctx context.Context, ids []string, failFast bool) (Report, error) {
	if err := r.validate(ids); err != nil {
		return Report{Mode: ModeStream}, err
	}

	start := time.Now()
	logger, reporter := r.logger(), r.reporter()

	pool, term, err := r.newPool(ctx, len(ids))
	if err != nil {
		return Report{Mode: ModeStream}, err
	}
	report := Report{Mode: ModeStream, Submitted: len(ids), Workers: pool.MaxWorkers()}

	logger.Info("starting batch", "mode", ModeStream, "fail_fast", failFast, "workers", report.Workers, "targets", len(ids))

	var runErr error
	for _, id := range ids {
		if _, err := pool.Submit(id); err != nil {
			runErr = err
			break
		}
	}

	if runErr == nil {
		for range ids {
			if err := ctx.Err(); err != nil {
				runErr = fmt.Errorf("%w: after %d results: %w", ErrInterrupted, len(report.Results), err)
				break
			}

			result, err := pool.Take(ctx)
			if err != nil {
				runErr = err
				break
			}

			report.Results = append(report.Results, result)
			reporter.ReportResult(result)

			if failFast && !result.Success {
				report.Terminated = true
				report.Trigger = result.ID
				logger.Warn("probe failed, terminating batch",
					"target", result.ID,
					"taken", len(report.Results),
					"remaining", len(ids)-len(report.Results))
				reporter.ReportNotice(ShutdownNotice)
				break
			}
		}
	}

	return r.finish(ctx, start, report, term, runErr)
}

// Batch submits every target with InvokeAll, waits for all of them and then
// reports the results in submission order.
func (r *Runner) Batch(ctx context.Context, ids []string) (Report, error) {
	return r.BatchWithProgress(ctx, ids, r.Progress)
}

// BatchWithProgress is Batch with a callback invoked as each probe
// completes. The callback may run on several goroutines at once.
func (r *Runner) BatchWithProgress(ctx context.Context, ids []string, progressFn func(completed, total int)) (Report, error) {
	if err := r.validate(ids); err != nil {
		return Report{Mode: ModeBatch}, err
	}

	start := time.Now()
	logger, reporter := r.logger(), r.reporter()

	pool, term, err := r.newPool(ctx, len(ids))
	if err != nil {
		return Report{Mode: ModeBatch}, err
	}
	report := Report{Mode: ModeBatch, Submitted: len(ids), Workers: pool.MaxWorkers()}

	logger.Info("starting batch", "mode", ModeBatch, "workers", report.Workers, "targets", len(ids))

	results, runErr := pool.InvokeAllWithProgress(ctx, ids, progressFn)
	for _, result := range results {
		report.Results = append(report.Results, result)
		reporter.ReportResult(result)
	}

	return r.finish(ctx, start, report, term, runErr)
}

// Sequential probes each target in order on the calling goroutine. It uses
// no pool and serves as the timing baseline for the concurrent strategies.
func (r *Runner) Sequential(ctx context.Context, ids []string) (Report, error) {
	if err := r.validate(ids); err != nil {
		return Report{Mode: ModeSequential}, err
	}

	start := time.Now()
	logger, reporter, observer := r.logger(), r.reporter(), r.observer()
	report := Report{Mode: ModeSequential, Submitted: len(ids), Workers: 1}

	logger.Info("starting batch", "mode", ModeSequential, "targets", len(ids))

	var runErr error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("%w: before probing %q: %w", ErrInterrupted, id, err)
			break
		}

		observer.TaskStarted(id)
		result := execute(ctx, r.Probe, id)
		observer.TaskFinished(result)

		report.Results = append(report.Results, result)
		reporter.ReportResult(result)
	}

	report.Duration = time.Since(start)
	reporter.ReportDuration(report.Duration)
	r.logSummary(report)

	return report, runErr
}

// finish shuts the pool down, stamps the duration and reports it
func (r *Runner) finish(ctx context.Context, start time.Time, report Report, term *Terminator, runErr error) (Report, error) {
	// An interrupted run still has to reclaim its pool
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}

	outcome, termErr := term.Terminate(ctx)
	report.Outcome = outcome
	report.Discarded = len(term.Discarded())

	report.Duration = time.Since(start)
	r.reporter().ReportDuration(report.Duration)
	r.logSummary(report)

	if runErr != nil {
		return report, runErr
	}
	return report, termErr
}

func (r *Runner) logSummary(report Report) {
	r.logger().Info("batch completed",
		"mode", report.Mode,
		"reported", len(report.Results),
		"successful", CountSuccessful(report.Results),
		"failed", CountFailed(report.Results),
		"terminated", report.Terminated,
		"shutdown", report.Outcome,
		"duration", report.Duration)
}

func (r *Runner) validate(ids []string) error {
	if len(ids) == 0 {
		return util.NewValidationError("targets", nil, "at least one target is required")
	}
	if r.MaxConcurrency <= 0 {
		return util.NewValidationError("maxConcurrency", r.MaxConcurrency, "must be positive")
	}
	if r.GracePeriod <= 0 {
		return util.NewValidationError("gracePeriod", r.GracePeriod, "must be positive")
	}
	if r.Probe == nil {
		return util.NewValidationError("probe", nil, "must not be nil")
	}
	return nil
}

func (r *Runner) newPool(ctx context.Context, n int) (*Pool, *Terminator, error) {
	pool, err := NewPool(min(r.MaxConcurrency, n), r.Probe,
		WithLogger(r.logger()),
		WithObserver(r.Observer),
		WithBaseContext(ctx))
	if err != nil {
		return nil, nil, err
	}
	return pool, NewTerminator(pool, r.GracePeriod, r.logger()), nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) reporter() Reporter {
	if r.Reporter == nil {
		return nopReporter{}
	}
	return r.Reporter
}

func (r *Runner) observer() Observer {
	if r.Observer == nil {
		return nopObserver{}
	}
	return r.Observer
}
