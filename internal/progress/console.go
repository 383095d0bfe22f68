package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/maggiben/ytkit/internal/scheduler"
	"github.com/maggiben/ytkit/internal/worker"
)

// Options configures the console observer.
type Options struct {
	// Output is where lines are written.
	// Default: os.Stderr
	Output io.Writer

	// TotalItems is the number of items in the run, for (done/total)
	// prefixes. Zero omits the prefix.
	TotalItems int

	// Verbose additionally prints per-item progress and exit lines.
	Verbose bool
}

// Console prints scheduler events. It implements scheduler.Observer.
type Console struct {
	opts Options

	mu        sync.Mutex
	started   time.Time
	terminal  int
	failed    int
	retries   int
	lastPrint map[string]time.Time
}

// NewConsole creates a console observer.
func NewConsole(opts Options) *Console {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return &Console{
		opts:      opts,
		started:   time.Now(),
		lastPrint: make(map[string]time.Time),
	}
}

// OnMessage renders worker messages.
func (c *Console) OnMessage(msg worker.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.Type {
	case worker.MsgVideoInfo:
		title := ""
		if msg.Info != nil {
			title = msg.Info.Title
		}
		fmt.Fprintf(c.opts.Output, "[ytkit] %s%s resolved: %s\n", c.counter(), msg.ItemID, title)

	case worker.MsgProgress:
		if !c.opts.Verbose || msg.Progress == nil {
			return
		}
		// One progress line per item per second is plenty.
		if last, ok := c.lastPrint[msg.ItemID]; ok && time.Since(last) < time.Second {
			return
		}
		c.lastPrint[msg.ItemID] = time.Now()

		p := msg.Progress
		if p.Total > 0 {
			percent := float64(p.Transferred) / float64(p.Total) * 100
			fmt.Fprintf(c.opts.Output, "[ytkit] %s %.1f%% | %s / %s | %s/s\n",
				msg.ItemID, percent, FormatBytes(p.Transferred), FormatBytes(p.Total), FormatBytes(int64(p.BytesPerSecond)))
		} else {
			fmt.Fprintf(c.opts.Output, "[ytkit] %s %s | %s/s\n",
				msg.ItemID, FormatBytes(p.Transferred), FormatBytes(int64(p.BytesPerSecond)))
		}

	case worker.MsgError:
		fmt.Fprintf(c.opts.Output, "[ytkit] %s attempt failed: %v\n", msg.ItemID, msg.Err)
	}
}

// OnRetry renders retry dispatches.
func (c *Console) OnRetry(itemID string, remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retries++
	fmt.Fprintf(c.opts.Output, "[ytkit] retrying %s (%d attempts left)\n", itemID, remaining)
}

// OnExit renders unit exits in verbose mode.
func (c *Console) OnExit(itemID string, exitCode int) {
	if !c.opts.Verbose {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.opts.Output, "[ytkit] %s worker exited with code %d\n", itemID, exitCode)
}

// OnTerminated renders terminal states.
func (c *Console) OnTerminated(itemID string, res scheduler.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.terminal++
	delete(c.lastPrint, itemID)

	if res.ExitCode == 0 {
		fmt.Fprintf(c.opts.Output, "[ytkit] %s%s done\n", c.counter(), itemID)
		return
	}
	c.failed++
	fmt.Fprintf(c.opts.Output, "[ytkit] %s%s failed: %v\n", c.counter(), itemID, res.Err)
}

// Summary prints run totals. Call once after the run finishes.
func (c *Console) Summary() {
	c.mu.Lock()
	defer c.mu.Unlock()

	completed := c.terminal - c.failed
	fmt.Fprintf(c.opts.Output, "[ytkit] %d completed | %d failed | %d retries | total time: %s\n",
		completed, c.failed, c.retries, FormatDuration(time.Since(c.started)))
}

// counter renders the "(done/total) " prefix. Caller holds the mutex.
func (c *Console) counter() string {
	if c.opts.TotalItems <= 0 {
		return ""
	}
	return fmt.Sprintf("(%02d/%02d) ", c.terminal, c.opts.TotalItems)
}

// FormatBytes formats bytes as a human-readable string.
func FormatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// FormatDuration formats a duration as a human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
