package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maggiben/ytkit/internal/playlist"
	"github.com/maggiben/ytkit/internal/retry"
	"github.com/maggiben/ytkit/internal/worker"
	"github.com/maggiben/ytkit/pkg/taskpool"
)

// Defaults for scheduler options.
const (
	DefaultConcurrency  = 4
	DefaultStallTimeout = 60 * time.Second
)

// ErrStalled marks an attempt that produced no worker activity within the
// stall timeout.
var ErrStalled = errors.New("scheduler: worker stalled")

// Result is the final, single outcome record for one item. RunID tags the
// record with the scheduler run that produced it.
type Result struct {
	RunID    string
	ItemID   string
	ExitCode int
	Err      error
}

// Unit is the scheduler's view of one execution unit. *worker.Handle
// satisfies it; tests substitute scripted units.
type Unit interface {
	Messages() <-chan worker.Message
	Retry(item playlist.Item) error
	Kill()
	Done() <-chan struct{}
	ExitCode() int
}

// SpawnFunc starts an execution unit for an item.
type SpawnFunc func(ctx context.Context, item playlist.Item) Unit

// Observer receives scheduling events. Implementations must be safe for
// concurrent use: events arrive from one goroutine per in-flight item.
// Observer behavior never affects scheduling; panics are swallowed.
type Observer interface {
	// OnMessage receives every worker message, tagged with its item.
	OnMessage(msg worker.Message)
	// OnRetry fires when a retry is dispatched for an item.
	OnRetry(itemID string, remaining int)
	// OnExit fires when a unit terminates, with its exit code.
	OnExit(itemID string, exitCode int)
	// OnTerminated fires once per item, when it reaches a terminal state.
	OnTerminated(itemID string, res Result)
}

// Options configures a Scheduler.
type Options struct {
	// Concurrency is the maximum number of items downloading at once.
	// Default: DefaultConcurrency.
	Concurrency int

	// RetryBudget is the number of retries each item gets on top of its
	// initial attempt. Negative is treated as zero.
	RetryBudget int

	// StallTimeout fails an attempt when no worker message arrives within
	// it. Default: DefaultStallTimeout.
	StallTimeout time.Duration

	// Spawn starts execution units. Required.
	Spawn SpawnFunc

	// Observer receives events. Optional.
	Observer Observer
}

// Scheduler owns the worker map and retry ledger for one or more download
// runs.
type Scheduler struct {
	opts   Options
	runID  string
	ledger *retry.Ledger

	mu      sync.Mutex
	workers map[string]Unit
}

// New creates a scheduler. Spawn is required.
func New(opts Options) (*Scheduler, error) {
	if opts.Spawn == nil {
		return nil, errors.New("scheduler: Spawn is required")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.StallTimeout <= 0 {
		opts.StallTimeout = DefaultStallTimeout
	}

	return &Scheduler{
		opts:    opts,
		runID:   uuid.NewString(),
		ledger:  retry.NewLedger(opts.RetryBudget),
		workers: make(map[string]Unit),
	}, nil
}

// RunID identifies this scheduler instance in logs.
func (s *Scheduler) RunID() string { return s.runID }

// WorkerCount reports how many units are currently alive.
func (s *Scheduler) WorkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// DownloadPlaylist resolves the playlist and downloads every item. A
// listing failure aborts before any worker is spawned.
func (s *Scheduler) DownloadPlaylist(ctx context.Context, lister playlist.Lister, playlistID string, opts playlist.Options) ([]Result, error) {
	items, err := lister.Resolve(ctx, playlistID, opts)
	if err != nil {
		return nil, fmt.Errorf("list playlist %q: %w", playlistID, err)
	}
	return s.Download(ctx, items)
}

// Download processes every item to a terminal state and returns one Result
// per item, in completion order. Per-item failures are recorded in their
// Result; only pool-internal defects return an error.
func (s *Scheduler) Download(ctx context.Context, items []playlist.Item) ([]Result, error) {
	tasks := make([]taskpool.Task[Result], len(items))
	for i, item := range items {
		item := item
		tasks[i] = func(ctx context.Context) (Result, error) {
			return s.runItem(ctx, item), nil
		}
	}

	results := make([]Result, 0, len(items))
	for res := range taskpool.Run(ctx, s.opts.Concurrency, taskpool.FromSlice(tasks)) {
		if res.Err != nil {
			// Tasks absorb all item failures, so an error here is a
			// defect in the pool or a task panic. Abort the run.
			return nil, res.Err
		}
		results = append(results, res.Value)
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// runItem supervises one item from first spawn to terminal state. It is
// the single writer for this item's worker-map entry and ledger entry.
func (s *Scheduler) runItem(ctx context.Context, item playlist.Item) Result {
	unit := s.opts.Spawn(ctx, item)
	s.track(item.ID, unit)
	defer s.untrack(item.ID)

	timer := time.NewTimer(s.opts.StallTimeout)
	defer timer.Stop()

	for {
		select {
		case msg, ok := <-unit.Messages():
			if !ok {
				// Unit terminated. The exit code, not any message, is
				// the authoritative signal here: a killed or crashed
				// unit dies without emitting error.
				<-unit.Done()
				code := unit.ExitCode()
				s.observeExit(item.ID, code)
				if code == 0 {
					return s.finish(item, Result{ItemID: item.ID, ExitCode: 0})
				}
				next, res := s.retryBySpawn(ctx, item, timer, code, errors.New("scheduler: unit terminated without result"))
				if next == nil {
					return res
				}
				unit = next
				continue
			}

			s.resetTimer(timer)
			s.observeMessage(msg)

			switch msg.Type {
			case worker.MsgEnd:
				s.drain(unit)
				<-unit.Done()
				s.observeExit(item.ID, unit.ExitCode())
				return s.finish(item, Result{ItemID: item.ID, ExitCode: 0})

			case worker.MsgError:
				if s.ledger.Allow(item.ID) {
					// Retry in place: same unit, refreshed payload.
					if err := unit.Retry(item.Clone()); err == nil {
						s.observeRetry(item.ID)
						s.resetTimer(timer)
						continue
					}
					// Unit died between the message and the dispatch;
					// fall through to teardown with the original error.
				}
				unit.Kill()
				s.drain(unit)
				<-unit.Done()
				s.observeExit(item.ID, unit.ExitCode())
				return s.finish(item, Result{
					ItemID:   item.ID,
					ExitCode: nonZero(unit.ExitCode()),
					Err:      msg.Err,
				})
			}

		case <-timer.C:
			// No activity within the stall window: treat like a failed
			// exit. The unit may be wedged mid-download, so retry means
			// a fresh spawn, not an in-place dispatch.
			unit.Kill()
			s.drain(unit)
			<-unit.Done()
			s.observeExit(item.ID, unit.ExitCode())
			next, res := s.retryBySpawn(ctx, item, timer, unit.ExitCode(), ErrStalled)
			if next == nil {
				return res
			}
			unit = next
		}
	}
}

// retryBySpawn consumes a retry attempt and starts a fresh unit, or returns
// the item's terminal failure when the budget is exhausted or the run is
// cancelled. The old unit must already be dead.
func (s *Scheduler) retryBySpawn(ctx context.Context, item playlist.Item, timer *time.Timer, exitCode int, cause error) (Unit, Result) {
	if ctx.Err() == nil && s.ledger.Allow(item.ID) {
		s.observeRetry(item.ID)
		unit := s.opts.Spawn(ctx, item.Clone())
		s.track(item.ID, unit)
		s.resetTimer(timer)
		return unit, Result{}
	}
	return nil, s.finish(item, Result{
		ItemID:   item.ID,
		ExitCode: nonZero(exitCode),
		Err:      cause,
	})
}

// finish records an item's terminal state: ledger entry dropped, observer
// notified. The worker-map entry is removed by runItem's deferred untrack.
func (s *Scheduler) finish(item playlist.Item, res Result) Result {
	res.RunID = s.runID
	s.ledger.Forget(item.ID)
	s.observeTerminated(item.ID, res)
	return res
}

// drain forwards any remaining buffered messages from a finished or dying
// unit so the observer sees the complete stream.
func (s *Scheduler) drain(unit Unit) {
	for msg := range unit.Messages() {
		s.observeMessage(msg)
	}
}

func (s *Scheduler) track(id string, unit Unit) {
	s.mu.Lock()
	s.workers[id] = unit
	s.mu.Unlock()
}

func (s *Scheduler) untrack(id string) {
	s.mu.Lock()
	delete(s.workers, id)
	s.mu.Unlock()
}

// resetTimer restarts the stall clock from zero.
func (s *Scheduler) resetTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(s.opts.StallTimeout)
}

func (s *Scheduler) observeMessage(msg worker.Message) {
	if s.opts.Observer == nil {
		return
	}
	safeObserve(func() { s.opts.Observer.OnMessage(msg) })
}

func (s *Scheduler) observeRetry(itemID string) {
	if s.opts.Observer == nil {
		return
	}
	remaining := s.ledger.Remaining(itemID)
	safeObserve(func() { s.opts.Observer.OnRetry(itemID, remaining) })
}

func (s *Scheduler) observeExit(itemID string, exitCode int) {
	if s.opts.Observer == nil {
		return
	}
	safeObserve(func() { s.opts.Observer.OnExit(itemID, exitCode) })
}

func (s *Scheduler) observeTerminated(itemID string, res Result) {
	if s.opts.Observer == nil {
		return
	}
	safeObserve(func() { s.opts.Observer.OnTerminated(itemID, res) })
}

// safeObserve shields scheduling from observer panics.
func safeObserve(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

// nonZero maps a unit exit code to a failure code, covering units that
// report 0 or -1 despite a failure path.
func nonZero(code int) int {
	if code <= 0 {
		return 1
	}
	return code
}
