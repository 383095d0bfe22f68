package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/maggiben/ytkit/internal/config"
	ythttp "github.com/maggiben/ytkit/internal/http"
	"github.com/maggiben/ytkit/internal/media"
	"github.com/maggiben/ytkit/internal/platform"
	"github.com/maggiben/ytkit/internal/playlist"
	"github.com/maggiben/ytkit/internal/progress"
)

// runList prints playlist items without downloading anything.
func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	playlistID := fs.String("playlist", "", "Playlist ID, watch URL or index page URL (required)")
	source := fs.String("source", config.SourceYouTube, "Listing source: youtube or index")
	limit := fs.Int("limit", 0, "Stop listing after N items (0 = all)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: ytkit list [options]

Print the items of a playlist without downloading.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *playlistID == "" {
		fmt.Fprintln(os.Stderr, "Error: -playlist is required")
		fs.Usage()
		return ExitInvalidArgs
	}
	if *source != config.SourceYouTube && *source != config.SourceIndex {
		fmt.Fprintf(os.Stderr, "Error: unknown source %q\n", *source)
		return ExitInvalidArgs
	}

	ctx := context.Background()
	client := ythttp.NewClient(ythttp.DefaultOptions())
	lister, _ := newSource(*source, client)

	items, err := lister.Resolve(ctx, *playlistID, playlist.Options{Limit: *limit})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing playlist: %v\n", err)
		return ExitListingFailed
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tTITLE\tDURATION")
	for i, item := range items {
		duration := ""
		if item.Duration > 0 {
			duration = progress.FormatDuration(item.Duration)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, item.ID, item.Title, duration)
	}
	w.Flush()

	return ExitSuccess
}

// newSource maps a source name to its lister and resolver pair.
func newSource(source string, client *ythttp.Client) (playlist.Lister, media.Resolver) {
	if source == config.SourceIndex {
		return platform.NewHTMLIndexLister(client), platform.NewDirectResolver(client)
	}
	return platform.NewYouTubeLister(), platform.NewYouTubeResolver()
}
