package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/maggiben/ytkit/internal/config"
	ythttp "github.com/maggiben/ytkit/internal/http"
	"github.com/maggiben/ytkit/internal/media"
	"github.com/maggiben/ytkit/internal/playlist"
	"github.com/maggiben/ytkit/internal/progress"
	"github.com/maggiben/ytkit/internal/scheduler"
	"github.com/maggiben/ytkit/internal/sink"
	"github.com/maggiben/ytkit/internal/worker"
)

// runDownload lists a playlist and downloads every item into object
// storage, with bounded concurrency, per-item retries and stall
// detection.
func runDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ExitOnError)

	configPath := fs.String("config", "", "YAML configuration file")
	playlistID := fs.String("playlist", "", "Playlist ID, watch URL or index page URL (required)")
	source := fs.String("source", "", "Listing source: youtube or index")
	bucket := fs.String("bucket", "", "Destination bucket URL (required)")
	template := fs.String("template", "", "Object name template, e.g. {index}-{title}.{ext}")
	concurrency := fs.Int("concurrency", 0, "Number of items downloading at once")
	retryBudget := fs.Int("retry-budget", -1, "Retries per item on top of the first attempt")
	stallTimeout := fs.Duration("stall-timeout", 0, "Kill an attempt after this long without progress")
	quality := fs.String("quality", "", "Target quality, e.g. 720p, best")
	format := fs.String("format", "", "Container filter, e.g. mp4, webm")
	audioOnly := fs.Bool("audio", false, "Download audio-only streams")
	noProgress := fs.Bool("no-progress", false, "Disable progress output")
	verbose := fs.Bool("verbose", false, "Print per-item progress and worker exits")
	limit := fs.Int("limit", 0, "Stop listing after N items (0 = all)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: ytkit download [options]

List a playlist and download every item into object storage.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, code := loadConfig(fs, *configPath, config.Config{
		Playlist:     *playlistID,
		Source:       *source,
		Bucket:       *bucket,
		Template:     *template,
		Concurrency:  *concurrency,
		RetryBudget:  *retryBudget,
		StallTimeout: *stallTimeout,
		Quality:      *quality,
		Format:       *format,
		AudioOnly:    *audioOnly,
		Verbose:      *verbose,
		Limit:        *limit,
	}, *noProgress)
	if code != ExitSuccess {
		return code
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[ytkit] Received interrupt, shutting down...")
		cancel()
	}()

	client := ythttp.NewClient(ythttp.DefaultOptions())
	lister, resolver := newSource(cfg.Source, client)

	fmt.Fprintf(os.Stderr, "[ytkit] Listing %s...\n", cfg.Playlist)
	items, err := lister.Resolve(ctx, cfg.Playlist, playlist.Options{Limit: cfg.Limit})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing playlist: %v\n", err)
		return ExitListingFailed
	}
	store, err := sink.Open(ctx, cfg.Bucket, cfg.Template)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
		return ExitStorageError
	}
	defer store.Close()

	var observer scheduler.Observer
	var console *progress.Console
	if cfg.Progress {
		console = progress.NewConsole(progress.Options{
			TotalItems: len(items),
			Verbose:    cfg.Verbose,
		})
		observer = console
	}

	mediaOpts := media.Options{
		Quality:   cfg.Quality,
		Format:    cfg.Format,
		AudioOnly: cfg.AudioOnly,
	}
	sched, err := scheduler.New(scheduler.Options{
		Concurrency:  cfg.Concurrency,
		RetryBudget:  cfg.RetryBudget,
		StallTimeout: cfg.StallTimeout,
		Observer:     observer,
		Spawn: func(ctx context.Context, item playlist.Item) scheduler.Unit {
			return worker.Spawn(ctx, item, worker.Options{
				Resolver: resolver,
				Sink:     store,
				Client:   client,
				Media:    mediaOpts,
			})
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	fmt.Fprintf(os.Stderr, "[ytkit] run %s: downloading %d items\n", sched.RunID(), len(items))

	results, err := sched.Download(ctx, items)
	if console != nil {
		console.Summary()
	}
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "[ytkit] Download interrupted")
			return ExitGeneralError
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	failed := 0
	for _, res := range results {
		if res.ExitCode != 0 {
			failed++
		}
	}
	switch {
	case failed == 0:
		return ExitSuccess
	case failed == len(results):
		fmt.Fprintln(os.Stderr, "[ytkit] All downloads failed")
		return ExitGeneralError
	default:
		fmt.Fprintf(os.Stderr, "[ytkit] %d of %d downloads failed\n", failed, len(results))
		return ExitPartialFailure
	}
}

// loadConfig layers configuration: defaults, then the YAML file, then
// environment variables, then explicitly set flags.
func loadConfig(fs *flag.FlagSet, configPath string, flagCfg config.Config, noProgress bool) (config.Config, int) {
	cfg := config.Default()

	if configPath != "" {
		fileCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return cfg, ExitInvalidArgs
		}
		cfg = fileCfg
	}

	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, ExitInvalidArgs
	}

	// Merge skips zero values, so only pass flags the user set.
	override := config.Config{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "playlist":
			override.Playlist = flagCfg.Playlist
		case "source":
			override.Source = flagCfg.Source
		case "bucket":
			override.Bucket = flagCfg.Bucket
		case "template":
			override.Template = flagCfg.Template
		case "concurrency":
			override.Concurrency = flagCfg.Concurrency
		case "retry-budget":
			cfg.RetryBudget = flagCfg.RetryBudget
		case "stall-timeout":
			override.StallTimeout = flagCfg.StallTimeout
		case "quality":
			override.Quality = flagCfg.Quality
		case "format":
			override.Format = flagCfg.Format
		case "audio":
			override.AudioOnly = flagCfg.AudioOnly
		case "verbose":
			override.Verbose = flagCfg.Verbose
		case "limit":
			override.Limit = flagCfg.Limit
		case "no-progress":
			cfg.Progress = !noProgress
		}
	})
	return cfg.Merge(override), ExitSuccess
}
