// Package scheduler drives a playlist download: it feeds one task per item
// through a bounded task pool, supervises each item's execution unit, and
// applies the retry policy.
//
// Each task owns exactly one live unit for its item at a time. A failed
// attempt consumes one entry from the item's retry budget: failures
// signalled by an error message are retried in place on the same unit,
// while a stalled or dead unit is killed and respawned fresh. Once the
// budget is exhausted the item is terminal-failed and its unit torn down.
//
// Every submitted item yields exactly one Result, whatever happened to it;
// per-item failures are data, never errors out of Download. The result
// slice is in completion order, not submission order.
//
// # Events
//
// An optional Observer receives every worker message plus pool-level
// lifecycle events (retry dispatched, unit exited, item terminated). The
// observer is fed from the supervising goroutines but must never influence
// scheduling: a panicking observer is recovered and ignored.
//
// # Stall Detection
//
// A unit that produces no message within the stall timeout is treated as
// failed, exactly like a non-zero exit. The clock restarts from zero on
// every observed message and on every retry dispatch, so a retried attempt
// gets the full window again.
package scheduler
