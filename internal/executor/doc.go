// Package executor runs batches of independent probes on a bounded worker pool.
//
// The package provides the Pool (bounded concurrency, completion queue,
// futures and a two-phase shutdown), three completion strategies built on
// it, and result aggregation helpers.
//
// # Pool
//
// A pool starts at most MaxWorkers goroutines, lazily, one per submitted
// item. Submitted items run in submission order as workers free up:
//
//	pool, err := executor.NewPool(4, probe, executor.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	for _, target := range targets {
//	    if _, err := pool.Submit(target); err != nil {
//	        return err
//	    }
//	}
//
//	for range targets {
//	    result, err := pool.Take(ctx) // completion order
//	    if err != nil {
//	        break
//	    }
//	    fmt.Println(result)
//	}
//
// InvokeAll submits a whole batch and returns results aligned with the
// submission order.
//
// # Strategies
//
// Runner wraps the pool with the three reporting strategies:
//
//   - Stream: results reported as they complete, one Take per item
//   - Batch: InvokeAll, results reported in submission order
//   - Sequential: no pool, one probe at a time on the calling goroutine
//
// StreamFailFast stops at the first failed result, reports "Shutdown called"
// and shuts the pool down. Results of probes still running at that point
// are discarded.
//
// # Shutdown
//
// Terminator implements the two-phase protocol: Shutdown, wait up to the
// grace period, then ShutdownNow and wait once more. A pool that still has
// live workers after the second wait is logged as not terminated and the
// run ends with the results it already has. Terminate runs once; later
// calls return the same outcome.
//
// # Errors
//
// Probe failures are values (Result.Success is false). Errors returned by a
// probe and panics are converted into failed results with Result.Err set.
// Submitting to a closed pool returns ErrPoolClosed. A cancelled context
// during Take, Future.Wait or AwaitTermination returns ErrInterrupted; the
// strategies still shut their pool down before returning.
package executor
