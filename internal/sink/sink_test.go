package sink

import (
	"context"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"

	"github.com/maggiben/ytkit/internal/media"
	"github.com/maggiben/ytkit/internal/playlist"
)

func TestExpandTemplate(t *testing.T) {
	item := playlist.Item{
		ID:     "dQw4w9WgXcQ",
		Title:  "listing title",
		Author: "Rick",
		Index:  4,
	}
	info := &media.Info{
		Title: "Never Gonna Give You Up",
		Ext:   "mp4",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"default", "{title}.{ext}", "Never Gonna Give You Up.mp4"},
		{"id", "{id}.{ext}", "dQw4w9WgXcQ.mp4"},
		{"indexed", "{index} - {title}.{ext}", "05 - Never Gonna Give You Up.mp4"},
		{"author", "{author}/{title}.{ext}", "Rick/Never Gonna Give You Up.mp4"},
		{"unknown placeholder", "{nope}.{ext}", "{nope}.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTemplate(tt.template, item, info); got != tt.want {
				t.Errorf("ExpandTemplate(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestExpandTemplateSanitizesTitle(t *testing.T) {
	item := playlist.Item{ID: "x1"}
	info := &media.Info{Title: `AC/DC: "Back <in> Black"?`, Ext: "webm"}

	got := ExpandTemplate("{title}.{ext}", item, info)
	want := "AC_DC_ _Back _in_ Black__.webm"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandTemplateResolvedIDWins(t *testing.T) {
	// The resolver's ID names the actual stream; a listing-side ID is
	// just the fallback, like title and author.
	item := playlist.Item{ID: "item1"}
	info := &media.Info{ID: "v1", Ext: "mp4"}
	if got := ExpandTemplate("{id}.{ext}", item, info); got != "v1.mp4" {
		t.Errorf("got %q, want %q", got, "v1.mp4")
	}
}

func TestExpandTemplateFallbacks(t *testing.T) {
	// No resolved info and no title: fall back to the item ID, "bin" ext.
	item := playlist.Item{ID: "abc123"}
	if got := ExpandTemplate("{title}.{ext}", item, nil); got != "abc123.bin" {
		t.Errorf("got %q, want %q", got, "abc123.bin")
	}
}

func TestCreateWritesToBucket(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	s := New(bucket, "{id}.{ext}")

	item := playlist.Item{ID: "vid1"}
	info := &media.Info{Ext: "mp4", MimeType: "video/mp4"}

	w, key, err := s.Create(ctx, item, info)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if key != "vid1.mp4" {
		t.Errorf("expected key 'vid1.mp4', got %q", key)
	}

	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("expected 'payload', got %q", data)
	}
}
