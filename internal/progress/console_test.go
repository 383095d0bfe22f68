package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/maggiben/ytkit/internal/media"
	"github.com/maggiben/ytkit/internal/scheduler"
	"github.com/maggiben/ytkit/internal/worker"
)

func TestConsoleLifecycleLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(Options{Output: &buf, TotalItems: 2})

	c.OnMessage(worker.Message{
		Type:   worker.MsgVideoInfo,
		ItemID: "vid1",
		Info:   &media.Info{Title: "First Video"},
	})
	c.OnRetry("vid1", 1)
	c.OnTerminated("vid1", scheduler.Result{ItemID: "vid1", ExitCode: 0})
	c.OnTerminated("vid2", scheduler.Result{
		ItemID:   "vid2",
		ExitCode: 1,
		Err:      errors.New("resolver unavailable"),
	})
	c.Summary()

	out := buf.String()
	for _, want := range []string{
		"vid1 resolved: First Video",
		"retrying vid1 (1 attempts left)",
		"vid1 done",
		"vid2 failed: resolver unavailable",
		"1 completed | 1 failed | 1 retries",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleProgressRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(Options{Output: &buf})

	c.OnMessage(worker.Message{
		Type:     worker.MsgProgress,
		ItemID:   "vid1",
		Progress: &worker.Progress{Transferred: 512, Total: 1024},
	})

	if buf.Len() != 0 {
		t.Errorf("expected no output without Verbose, got %q", buf.String())
	}
}

func TestConsoleProgressVerbose(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(Options{Output: &buf, Verbose: true})

	c.OnMessage(worker.Message{
		Type:   worker.MsgProgress,
		ItemID: "vid1",
		Progress: &worker.Progress{
			Transferred:    512,
			Total:          1024,
			Elapsed:        time.Second,
			BytesPerSecond: 512,
		},
	})

	out := buf.String()
	if !strings.Contains(out, "50.0%") {
		t.Errorf("expected a percentage line, got %q", out)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.00 TB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{3661 * time.Second, "1h 1m 1s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
