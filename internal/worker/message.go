package worker

import (
	"time"

	"github.com/maggiben/ytkit/internal/media"
)

// MessageType identifies a lifecycle message from an execution unit.
type MessageType string

// Message types emitted by a unit, in FIFO order within one attempt.
const (
	MsgOnline        MessageType = "online"
	MsgVideoInfo     MessageType = "videoInfo"
	MsgContentLength MessageType = "contentLength"
	MsgProgress      MessageType = "progress"
	MsgEnd           MessageType = "end"
	MsgError         MessageType = "error"
	MsgRetrySuccess  MessageType = "retry:success"
)

// Progress is a periodic snapshot of a transfer in flight.
type Progress struct {
	// Transferred is the number of bytes written so far.
	Transferred int64

	// Total is the expected size in bytes, or 0 when unknown.
	Total int64

	// Elapsed is the time since the current attempt started downloading.
	Elapsed time.Duration

	// BytesPerSecond is the average transfer rate over Elapsed.
	BytesPerSecond float64
}

// Message is one lifecycle event from an execution unit, tagged with the
// item it belongs to.
type Message struct {
	Type   MessageType
	ItemID string

	// Info is set for videoInfo and retry:success messages.
	Info *media.Info

	// ContentLength is set for contentLength messages.
	ContentLength int64

	// Progress is set for progress messages.
	Progress *Progress

	// Err is set for error messages.
	Err error
}
