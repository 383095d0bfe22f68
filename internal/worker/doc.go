// Package worker runs one playlist item's download in an isolated execution
// unit and reports its lifecycle over a message channel.
//
// Each unit is a goroutine with its own context; the scheduler only ever
// sees the Handle and its FIFO message stream, never shared state. A crash
// or stall inside one unit cannot corrupt another item or the scheduler.
//
// # Message Protocol
//
// Unit → scheduler, in order within one attempt:
//
//	online         attempt started, unit is ready
//	videoInfo      stream resolved, download about to start
//	contentLength  total size known
//	progress       periodic transfer snapshot
//	end            download completed
//	error          this attempt failed
//	retry:success  a retried attempt completed (precedes its end)
//
// Scheduler → unit: Retry(item) instructs an alive unit to re-attempt the
// same logical item with a freshly supplied payload. The unit re-emits
// online at the start of every attempt, so online counts equal attempts.
//
// # Exit Semantics
//
// The unit terminates with exit code 0 on success and 1 on failure; Done is
// closed at termination and ExitCode is valid from then on. Termination,
// not the error message, is the authoritative failure signal: a killed unit
// dies without emitting error.
package worker
