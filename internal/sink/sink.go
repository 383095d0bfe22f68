package sink

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gocloud.dev/blob"

	"github.com/maggiben/ytkit/internal/media"
	"github.com/maggiben/ytkit/internal/playlist"
)

// DefaultTemplate is used when no template is configured.
const DefaultTemplate = "{title}.{ext}"

// Sink writes item streams to a blob bucket.
type Sink struct {
	bucket   *blob.Bucket
	template string
	owned    bool
}

// Open opens the bucket at bucketURL and returns a sink using the given
// name template. The sink owns the bucket and closes it on Close.
func Open(ctx context.Context, bucketURL, template string) (*Sink, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}
	s := New(bucket, template)
	s.owned = true
	return s, nil
}

// New wraps an existing bucket. The caller keeps ownership of the bucket.
func New(bucket *blob.Bucket, template string) *Sink {
	if template == "" {
		template = DefaultTemplate
	}
	return &Sink{bucket: bucket, template: template}
}

// Create opens a writer for the given item and resolved stream. It returns
// the writer and the expanded object key. Nothing is visible in the bucket
// until the writer is closed without error.
func (s *Sink) Create(ctx context.Context, item playlist.Item, info *media.Info) (io.WriteCloser, string, error) {
	key := ExpandTemplate(s.template, item, info)

	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: info.MimeType,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create writer for %q: %w", key, err)
	}
	return w, key, nil
}

// Close releases the underlying bucket if the sink owns it.
func (s *Sink) Close() error {
	if !s.owned {
		return nil
	}
	return s.bucket.Close()
}

// ExpandTemplate expands an object-name template for one item. Resolved
// info fields win over the listing's; unknown placeholders are left
// untouched.
func ExpandTemplate(template string, item playlist.Item, info *media.Info) string {
	title := item.Title
	author := item.Author
	ext := "bin"
	id := item.ID

	if info != nil {
		if info.ID != "" {
			id = info.ID
		}
		if info.Title != "" {
			title = info.Title
		}
		if info.Author != "" {
			author = info.Author
		}
		if info.Ext != "" {
			ext = info.Ext
		}
	}
	if title == "" {
		title = id
	}

	r := strings.NewReplacer(
		"{id}", sanitize(id),
		"{index}", fmt.Sprintf("%02d", item.Index+1),
		"{title}", sanitize(title),
		"{author}", sanitize(author),
		"{ext}", ext,
	)
	return r.Replace(template)
}

// sanitize strips characters that are unsafe in object keys or file names.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			b.WriteRune('_')
		default:
			if r < 0x20 {
				continue
			}
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
