// Package taskpool provides a bounded-concurrency executor for lazy task
// sources.
//
// A pool runs a fixed number of lanes. Each lane repeatedly claims the next
// task from a single shared source and runs it to completion before claiming
// another, so no more than the configured number of tasks is ever in flight.
// The source is drained cooperatively rather than partitioned up front: a
// fast lane naturally claims more tasks than a slow one.
//
// Results are delivered on a channel in completion order, one per claimed
// task. A task error is delivered through the result, not thrown; the lane
// that ran it moves on to the next task. The pool never retries.
//
// # Usage
//
//	tasks := []taskpool.Task[int]{
//	    func(ctx context.Context) (int, error) { return fetch(ctx, a) },
//	    func(ctx context.Context) (int, error) { return fetch(ctx, b) },
//	}
//
//	for res := range taskpool.Run(ctx, 4, taskpool.FromSlice(tasks)) {
//	    if res.Err != nil {
//	        // handle per-task failure
//	    }
//	}
//
// # Source Contract
//
// The source function returns the next task, or io.EOF once exhausted. The
// pool serializes calls to the source, so implementations need no locking
// of their own. Any other error from the source indicates a defect in the
// source itself; it is surfaced as a *SourceError result and stops the pool.
package taskpool
