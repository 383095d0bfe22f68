// Package media defines the media-resolution collaborator consumed by
// workers. The scheduler never talks to a resolver directly; resolution and
// the network I/O it implies live entirely inside the per-item execution
// unit.
package media

import (
	"context"
	"time"
)

// Info describes a resolved, downloadable stream.
type Info struct {
	// ID is the media identifier at the source.
	ID string

	// Title is the resolved title, preferred over the listing title for
	// output naming.
	Title string

	// Author is the uploader or channel, when known.
	Author string

	// MimeType is the stream's content type (e.g. "video/mp4").
	MimeType string

	// Ext is the container extension without the dot (e.g. "mp4").
	Ext string

	// ContentLength is the stream size in bytes, or 0 when unknown.
	ContentLength int64

	// Duration is the media duration, when known.
	Duration time.Duration

	// StreamURL is the direct download URL for the selected format.
	StreamURL string
}

// Options selects which stream variant to resolve.
type Options struct {
	// Quality is a quality label preference (e.g. "720p", "medium").
	// Empty picks the best available.
	Quality string

	// Format restricts selection to a container/codec substring of the
	// mime type (e.g. "mp4", "webm"). Empty accepts any.
	Format string

	// AudioOnly restricts selection to audio-only streams.
	AudioOnly bool
}

// Resolver resolves an item URL into a downloadable stream.
type Resolver interface {
	Resolve(ctx context.Context, url string, opts Options) (*Info, error)
}
