package platform

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	ythttp "github.com/maggiben/ytkit/internal/http"
	"github.com/maggiben/ytkit/internal/media"
	"github.com/maggiben/ytkit/internal/playlist"
)

// mediaExtensions are the anchor targets HTMLIndexLister treats as
// playlist entries.
var mediaExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
	".m4a":  true,
	".mp3":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".flac": true,
}

// HTMLIndexLister lists media files linked from an HTTP index page,
// such as an nginx autoindex or an Apache directory listing.
type HTMLIndexLister struct {
	client *ythttp.Client
}

// NewHTMLIndexLister creates a lister that fetches index pages with the
// given client.
func NewHTMLIndexLister(client *ythttp.Client) *HTMLIndexLister {
	return &HTMLIndexLister{client: client}
}

// Resolve implements playlist.Lister. The playlistID is the index page
// URL; relative hrefs are resolved against it.
func (l *HTMLIndexLister) Resolve(ctx context.Context, indexURL string, opts playlist.Options) ([]playlist.Item, error) {
	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("parse index URL: %w", err)
	}

	body, err := l.client.Get(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index page: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse index page: %w", err)
	}

	var items []playlist.Item
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if opts.Limit > 0 && len(items) >= opts.Limit {
			return
		}
		href, _ := sel.Attr("href")
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		target := base.ResolveReference(ref)
		name := path.Base(target.Path)
		if !mediaExtensions[strings.ToLower(path.Ext(name))] {
			return
		}
		if seen[target.String()] {
			return
		}
		seen[target.String()] = true

		title := strings.TrimSuffix(name, path.Ext(name))
		items = append(items, playlist.Item{
			ID:    name,
			URL:   target.String(),
			Title: title,
			Index: len(items),
		})
	})

	if len(items) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return items, nil
}

// DirectResolver resolves plain HTTP URLs by probing them with a HEAD
// request. It serves sources whose items already point at the media
// bytes.
type DirectResolver struct {
	client *ythttp.Client
}

// NewDirectResolver creates a resolver that probes URLs with the given
// client.
func NewDirectResolver(client *ythttp.Client) *DirectResolver {
	return &DirectResolver{client: client}
}

// Resolve implements media.Resolver. Format and quality options do not
// apply to direct URLs and are ignored.
func (r *DirectResolver) Resolve(ctx context.Context, rawURL string, _ media.Options) (*media.Info, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse media URL: %w", err)
	}

	info, err := r.client.Head(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", rawURL, err)
	}

	name := path.Base(u.Path)
	ext := strings.TrimPrefix(path.Ext(name), ".")

	return &media.Info{
		ID:            name,
		Title:         strings.TrimSuffix(name, path.Ext(name)),
		Ext:           ext,
		MimeType:      info.ContentType,
		ContentLength: info.Size,
		StreamURL:     rawURL,
	}, nil
}
