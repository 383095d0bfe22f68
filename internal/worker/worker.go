package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	ythttp "github.com/maggiben/ytkit/internal/http"
	"github.com/maggiben/ytkit/internal/media"
	"github.com/maggiben/ytkit/internal/playlist"
	"github.com/maggiben/ytkit/internal/sink"
)

// ErrUnitExited is returned by Retry when the unit has already terminated.
var ErrUnitExited = errors.New("worker: unit already terminated")

// DefaultProgressInterval is the minimum spacing between progress messages.
const DefaultProgressInterval = 500 * time.Millisecond

// Options configures a spawned execution unit.
type Options struct {
	// Resolver resolves the item URL into a downloadable stream.
	Resolver media.Resolver

	// Sink receives the downloaded bytes.
	Sink *sink.Sink

	// Client is the stream download client. Nil uses a default client.
	Client *ythttp.Client

	// Media selects the stream variant to resolve.
	Media media.Options

	// ProgressInterval is the minimum spacing between progress messages.
	// Default: DefaultProgressInterval.
	ProgressInterval time.Duration
}

// Handle is the scheduler-side reference to one execution unit. It owns the
// unit's lifetime: Kill terminates it, Done reports termination, and the
// message channel carries its lifecycle events in FIFO order.
type Handle struct {
	item   playlist.Item
	msgs   chan Message
	retry  chan playlist.Item
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// exitCode is written once, before done is closed.
	exitCode int
}

// Spawn starts an execution unit for the given item. The unit immediately
// begins its first attempt.
func Spawn(ctx context.Context, item playlist.Item, opts Options) *Handle {
	if opts.Client == nil {
		opts.Client = ythttp.NewClient(ythttp.DefaultOptions())
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}

	unitCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		item:   item,
		msgs:   make(chan Message, 16),
		retry:  make(chan playlist.Item, 1),
		ctx:    unitCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.run(opts)
	return h
}

// Item returns the item this unit was spawned for.
func (h *Handle) Item() playlist.Item { return h.item }

// Messages returns the unit's output channel. It is closed when the unit
// terminates, after the last message has been delivered.
func (h *Handle) Messages() <-chan Message { return h.msgs }

// Retry instructs an alive unit to re-attempt its item with a freshly
// supplied payload. It must only be called after the unit signalled a
// failed attempt; calling it on a terminated unit returns ErrUnitExited.
func (h *Handle) Retry(item playlist.Item) error {
	select {
	case h.retry <- item:
		return nil
	case <-h.done:
		return ErrUnitExited
	}
}

// Kill terminates the unit. In-flight bytes already written to the output
// are not rolled back by the unit; an aborted blob writer discards them.
func (h *Handle) Kill() { h.cancel() }

// Done is closed when the unit has terminated.
func (h *Handle) Done() <-chan struct{} { return h.done }

// ExitCode returns the unit's exit code: 0 on success, non-zero on failure,
// -1 while the unit is still running.
func (h *Handle) ExitCode() int {
	select {
	case <-h.done:
		return h.exitCode
	default:
		return -1
	}
}

// run is the unit's main loop: attempt, and on failure wait for a retry
// instruction or teardown.
func (h *Handle) run(opts Options) {
	exit := 1
	defer func() {
		h.cancel()
		close(h.msgs)
		h.exitCode = exit
		close(h.done)
	}()

	item := h.item
	retried := false
	for {
		err := h.attempt(item, opts, retried)
		if err == nil {
			exit = 0
			return
		}
		if h.ctx.Err() != nil {
			// Killed or parent cancelled: die without an error message.
			// Termination itself is the failure signal.
			return
		}

		h.send(Message{Type: MsgError, ItemID: item.ID, Err: err})

		select {
		case fresh := <-h.retry:
			item = fresh
			retried = true
		case <-h.ctx.Done():
			return
		}
	}
}

// attempt performs one full resolve-and-download pass for the item.
func (h *Handle) attempt(item playlist.Item, opts Options, retried bool) error {
	h.send(Message{Type: MsgOnline, ItemID: item.ID})

	info, err := opts.Resolver.Resolve(h.ctx, item.URL, opts.Media)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	h.send(Message{Type: MsgVideoInfo, ItemID: item.ID, Info: info})

	if info.ContentLength > 0 {
		h.send(Message{Type: MsgContentLength, ItemID: item.ID, ContentLength: info.ContentLength})
	}

	body, err := opts.Client.Get(h.ctx, info.StreamURL)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer body.Close()

	// The writer gets its own context so a failed copy can abort the
	// object instead of committing a truncated one on Close.
	writeCtx, abort := context.WithCancel(h.ctx)
	defer abort()

	w, key, err := opts.Sink.Create(writeCtx, item, info)
	if err != nil {
		return err
	}

	if err := h.copyWithProgress(item.ID, w, body, info.ContentLength, opts.ProgressInterval); err != nil {
		abort()
		w.Close()
		return err
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %q: %w", key, err)
	}

	if retried {
		h.send(Message{Type: MsgRetrySuccess, ItemID: item.ID, Info: info})
	}
	h.send(Message{Type: MsgEnd, ItemID: item.ID})
	return nil
}

// copyWithProgress streams src into dst, emitting progress messages at most
// once per interval.
func (h *Handle) copyWithProgress(itemID string, dst io.Writer, src io.Reader, total int64, interval time.Duration) error {
	buf := make([]byte, 64*1024)
	var transferred int64
	start := time.Now()
	lastEmit := start

	for {
		if err := h.ctx.Err(); err != nil {
			return err
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write output: %w", werr)
			}
			transferred += int64(n)

			if time.Since(lastEmit) >= interval {
				h.sendProgress(itemID, transferred, total, time.Since(start))
				lastEmit = time.Now()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("read stream: %w", rerr)
		}
	}

	if total > 0 && transferred < total {
		return fmt.Errorf("stream truncated: got %d of %d bytes", transferred, total)
	}

	h.sendProgress(itemID, transferred, total, time.Since(start))
	return nil
}

func (h *Handle) sendProgress(itemID string, transferred, total int64, elapsed time.Duration) {
	var rate float64
	if s := elapsed.Seconds(); s > 0 {
		rate = float64(transferred) / s
	}
	h.send(Message{
		Type:   MsgProgress,
		ItemID: itemID,
		Progress: &Progress{
			Transferred:    transferred,
			Total:          total,
			Elapsed:        elapsed,
			BytesPerSecond: rate,
		},
	})
}

// send delivers a message, giving up if the unit is torn down while the
// scheduler is not reading.
func (h *Handle) send(msg Message) {
	select {
	case h.msgs <- msg:
	case <-h.ctx.Done():
	}
}
