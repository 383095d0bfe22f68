// Package playlist defines playlist items and the listing collaborator.
package playlist

import (
	"context"
	"time"
)

// Item is one unit of work drawn from a playlist. Items are immutable once
// listed; a retried download attempt may carry a refreshed copy with updated
// Extra fields (tokens, signed URLs).
type Item struct {
	// ID uniquely identifies the item within its playlist.
	ID string

	// URL is the item's source URL, consumed by the media resolver.
	URL string

	// Title is a human-readable name, used for output templating.
	Title string

	// Author is the item's uploader or channel, when known.
	Author string

	// Duration is the media duration, when known.
	Duration time.Duration

	// Index is the item's position in the playlist (0-based).
	Index int

	// Extra carries source-specific fields the resolver may need.
	Extra map[string]string
}

// Clone returns a deep copy of the item, suitable for mutation on a retry
// dispatch without touching the original listing.
func (it Item) Clone() Item {
	out := it
	if it.Extra != nil {
		out.Extra = make(map[string]string, len(it.Extra))
		for k, v := range it.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Options configures playlist resolution.
type Options struct {
	// Limit caps the number of items returned. Zero means no limit.
	Limit int
}

// Lister resolves a playlist identifier into its ordered items. A listing
// failure aborts a download run before any worker is spawned.
type Lister interface {
	Resolve(ctx context.Context, playlistID string, opts Options) ([]Item, error)
}
