package platform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/maggiben/ytkit/internal/media"
	"github.com/maggiben/ytkit/internal/playlist"
)

var (
	// ErrEmptyPlaylist is returned when a playlist resolves to zero entries.
	ErrEmptyPlaylist = errors.New("platform: playlist has no entries")

	// ErrNoFormats is returned when no stream format matches the requested options.
	ErrNoFormats = errors.New("platform: no matching formats available")
)

// YouTubeLister expands YouTube playlist IDs into playlist items.
type YouTubeLister struct {
	client *youtube.Client
}

// NewYouTubeLister creates a lister backed by the YouTube client.
func NewYouTubeLister() *YouTubeLister {
	return &YouTubeLister{client: &youtube.Client{}}
}

// Resolve implements playlist.Lister.
func (l *YouTubeLister) Resolve(ctx context.Context, playlistID string, opts playlist.Options) ([]playlist.Item, error) {
	pl, err := l.client.GetPlaylistContext(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist %s: %w", playlistID, err)
	}
	if len(pl.Videos) == 0 {
		return nil, ErrEmptyPlaylist
	}

	items := make([]playlist.Item, 0, len(pl.Videos))
	for i, entry := range pl.Videos {
		if opts.Limit > 0 && len(items) >= opts.Limit {
			break
		}
		if entry == nil || entry.ID == "" {
			continue
		}
		items = append(items, playlist.Item{
			ID:       entry.ID,
			URL:      watchURL(entry.ID),
			Title:    entry.Title,
			Author:   entry.Author,
			Duration: entry.Duration,
			Index:    i,
			Extra: map[string]string{
				"playlist_id":    pl.ID,
				"playlist_title": pl.Title,
			},
		})
	}
	if len(items) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return items, nil
}

// YouTubeResolver resolves watch URLs into downloadable stream info.
type YouTubeResolver struct {
	client *youtube.Client
}

// NewYouTubeResolver creates a resolver backed by the YouTube client.
func NewYouTubeResolver() *YouTubeResolver {
	return &YouTubeResolver{client: &youtube.Client{}}
}

// Resolve implements media.Resolver.
func (r *YouTubeResolver) Resolve(ctx context.Context, url string, opts media.Options) (*media.Info, error) {
	video, err := r.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch video %s: %w", url, err)
	}

	format, err := selectFormat(video.Formats, opts)
	if err != nil {
		return nil, fmt.Errorf("select format for %s: %w", video.ID, err)
	}

	streamURL, err := r.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("resolve stream URL for %s: %w", video.ID, err)
	}

	return &media.Info{
		ID:            video.ID,
		Title:         video.Title,
		Author:        video.Author,
		MimeType:      format.MimeType,
		Ext:           mimeToExt(format.MimeType),
		ContentLength: format.ContentLength,
		Duration:      video.Duration,
		StreamURL:     streamURL,
	}, nil
}

// selectFormat picks the stream format matching opts. Video downloads
// only consider progressive formats (audio and video muxed together);
// audio-only downloads only consider formats without a video track.
func selectFormat(formats []youtube.Format, opts media.Options) (*youtube.Format, error) {
	var candidates []*youtube.Format
	for i := range formats {
		f := &formats[i]
		if opts.AudioOnly {
			if f.AudioChannels == 0 || f.Width != 0 || f.Height != 0 {
				continue
			}
		} else {
			if f.AudioChannels == 0 || f.Width == 0 || f.Height == 0 {
				continue
			}
		}
		if opts.Format != "" && !strings.EqualFold(mimeToExt(f.MimeType), strings.TrimSpace(opts.Format)) {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return nil, ErrNoFormats
	}

	if opts.AudioOnly {
		return pickByBitrate(candidates), nil
	}
	return pickByHeight(candidates, opts.Quality)
}

// pickByHeight picks the candidate closest to the target height without
// going over, or the highest available when no target is given.
func pickByHeight(candidates []*youtube.Format, quality string) (*youtube.Format, error) {
	target, err := parseQuality(quality)
	if err != nil {
		return nil, err
	}

	var best *youtube.Format
	if target > 0 {
		for _, f := range candidates {
			if f.Height > target {
				continue
			}
			if best == nil || f.Height > best.Height ||
				(f.Height == best.Height && bitrate(f) > bitrate(best)) {
				best = f
			}
		}
	}
	if best == nil {
		// No target, or nothing at or under it: take the highest.
		for _, f := range candidates {
			if best == nil || f.Height > best.Height ||
				(f.Height == best.Height && bitrate(f) > bitrate(best)) {
				best = f
			}
		}
	}
	return best, nil
}

func pickByBitrate(candidates []*youtube.Format) *youtube.Format {
	var best *youtube.Format
	for _, f := range candidates {
		if best == nil || bitrate(f) > bitrate(best) {
			best = f
		}
	}
	return best
}

// parseQuality parses values like "720p" or "1080" into a target
// height. Empty and "best" mean no target.
func parseQuality(q string) (int, error) {
	q = strings.TrimSpace(strings.ToLower(q))
	if q == "" || q == "best" {
		return 0, nil
	}
	q = strings.TrimSuffix(q, "p")
	n, err := strconv.Atoi(q)
	if err != nil {
		return 0, fmt.Errorf("platform: invalid quality %q (expected like 720p)", q)
	}
	return n, nil
}

func bitrate(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

// mimeToExt maps a MIME type like "video/mp4; codecs=..." to a file
// extension.
func mimeToExt(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	parts := strings.Split(mime, "/")
	if len(parts) != 2 || parts[1] == "" {
		return "bin"
	}
	switch parts[1] {
	case "3gpp":
		return "3gp"
	default:
		return parts[1]
	}
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
