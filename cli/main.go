package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ytmovers/config"
	"ytmovers/snapshot"
	"ytmovers/storage"
	"ytmovers/tracker"
	"ytmovers/web"
	"ytmovers/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "capture":
		cmdCapture(args)
	case "show":
		cmdShow(args)
	case "fetch":
		cmdFetch(args)
	case "discover":
		cmdDiscover(args)
	case "serve":
		cmdServe(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytmovers - track YouTube video metrics between runs

Usage:
  ytmovers capture  [flags]   Enter counts by hand and rank movers
  ytmovers show     [flags]   Show the stored snapshot, top videos by views
  ytmovers fetch    [flags]   Fetch tracked videos from the API and rank movers
  ytmovers discover [flags]   Discover videos from channels/keywords and rank movers
  ytmovers serve    [flags]   Serve the HTML dashboard
  ytmovers help               Show this help message

Examples:
  ytmovers fetch                          # Fetch tracked videos, rank by views delta
  ytmovers fetch --metric views_delta_pct       # Rank by percentage growth
  ytmovers discover --force               # Ignore the 24h discovery guard
  ytmovers show --top 8                   # Show the 8 most-viewed stored videos
  ytmovers serve                          # Dashboard on the configured address

For help on a specific command: ytmovers <command> -h
`)
}

// loadConfig exits on error: nothing works without a valid configuration.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the process logger. Verbose runs get development output
// on stderr, quiet runs only log warnings so the grid stays readable.
func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) youtube.StatsProvider {
	provider, err := youtube.NewAPIProvider(ctx, cfg.APIKey,
		youtube.WithRateLimit(cfg.RequestsPerSecond),
		youtube.WithRetryConfig(cfg.RetryConfig()),
		youtube.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, youtube.ErrMissingAPIKey) {
			fmt.Fprintf(os.Stderr, "Set YTMOVERS_API_KEY or add api_key to the config file.\n")
		}
		os.Exit(1)
	}
	return provider
}

func parseMetricFlag(s string) snapshot.Metric {
	metric, err := snapshot.ParseMetric(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return metric
}

// runPipeline executes one tracker run and renders the resulting grid.
// An empty snapshot is a notice, not a failure: the stored baseline is
// untouched and the process exits cleanly. Returns true only when the
// run produced and persisted a snapshot.
func runPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg snapshot.Registry, build tracker.Builder, metric snapshot.Metric, n int) bool {
	store := storage.NewJSONSnapshotStore(cfg.SnapshotFile, logger)
	tr := tracker.New(store, reg, logger)

	res, err := tr.Run(ctx, build, metric, n)
	if errors.Is(err, tracker.ErrEmptySnapshot) {
		fmt.Println("No videos found. Keeping the previous snapshot.")
		return false
	}
	if err != nil && res == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if res.Previous == nil {
		fmt.Println("No previous snapshot: this run becomes the baseline, deltas are n/a.")
	}
	renderGrid(os.Stdout, res.Top, metric)

	if err != nil {
		// The run completed but the save failed; show results and flag it.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		os.Exit(1)
	}
	return true
}

func cmdCapture(args []string) {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	metricStr := fs.String("metric", string(snapshot.MetricViews), "Ranking metric: views_delta, likes_delta, comments_delta, subscribers_delta, views_delta_pct")
	top := fs.Int("top", 0, "Number of rows to show (0 = config default)")
	verbose := fs.Bool("verbose", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytmovers capture [flags]\n\nReads counts from stdin for each tracked video.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig()
	logger := newLogger(*verbose)
	defer logger.Sync()
	metric := parseMetricFlag(*metricStr)
	reg := config.LoadTracked(cfg.TrackedFile)
	n := *top
	if n <= 0 {
		n = cfg.TopN
	}

	build := func(ctx context.Context) (*snapshot.Snapshot, error) {
		return tracker.ManualEntry(os.Stdin, os.Stdout, reg, time.Now())
	}
	runPipeline(context.Background(), cfg, logger, reg, build, metric, n)
}

func cmdShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	top := fs.Int("top", 0, "Number of rows to show (0 = config default)")
	verbose := fs.Bool("verbose", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytmovers show [flags]\n\nShows the stored snapshot ranked by current view count. No API access.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig()
	logger := newLogger(*verbose)
	defer logger.Sync()
	n := *top
	if n <= 0 {
		n = cfg.TopN
	}

	store := storage.NewJSONSnapshotStore(cfg.SnapshotFile, logger)
	snap, err := store.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if snap == nil || snap.Empty() {
		fmt.Println("No snapshot stored yet. Run fetch, discover or capture first.")
		return
	}

	fmt.Printf("Snapshot taken %s (%d videos)\n\n", snap.TakenAt.Format(time.RFC1123), len(snap.Videos))
	rows := snapshot.TopN(snap, snapshot.ViewsAsDeltas(snap), nil, snapshot.MetricViews, n)
	renderGrid(os.Stdout, rows, snapshot.MetricViews)
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	metricStr := fs.String("metric", string(snapshot.MetricViews), "Ranking metric: views_delta, likes_delta, comments_delta, subscribers_delta, views_delta_pct")
	top := fs.Int("top", 0, "Number of rows to show (0 = config default)")
	verbose := fs.Bool("verbose", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytmovers fetch [flags]\n\nFetches current stats for the tracked videos and ranks the movers.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig()
	logger := newLogger(*verbose)
	defer logger.Sync()
	metric := parseMetricFlag(*metricStr)
	reg := config.LoadTracked(cfg.TrackedFile)
	n := *top
	if n <= 0 {
		n = cfg.TopN
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()
	provider := newProvider(ctx, cfg, logger)

	build := func(ctx context.Context) (*snapshot.Snapshot, error) {
		return tracker.BuildTracked(ctx, provider, reg, time.Now())
	}
	runPipeline(ctx, cfg, logger, reg, build, metric, n)
}

func cmdDiscover(args []string) {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	metricStr := fs.String("metric", string(snapshot.MetricViewsPct), "Ranking metric: views_delta, likes_delta, comments_delta, subscribers_delta, views_delta_pct")
	top := fs.Int("top", 0, "Number of rows to show (0 = config default)")
	force := fs.Bool("force", false, "Run even if the last discovery was under 24h ago")
	verbose := fs.Bool("verbose", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytmovers discover [flags]\n\nDiscovers recent uploads from the configured channels and keywords,\nfetches their stats and ranks the movers. Runs at most once per 24h\nunless --force is given.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig()
	logger := newLogger(*verbose)
	defer logger.Sync()
	metric := parseMetricFlag(*metricStr)
	n := *top
	if n <= 0 {
		n = cfg.TopN
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	guard := storage.NewFileRunGuard(cfg.GuardFile)
	if !*force {
		last, ok, err := guard.LastRun(ctx)
		if err != nil {
			logger.Warn("reading run guard", zap.Error(err))
		}
		if ok && time.Since(last) < tracker.GuardWindow {
			fmt.Printf("Discovery already ran at %s, less than %s ago. Use --force to override.\n",
				last.Format(time.RFC1123), tracker.GuardWindow)
			return
		}
	}

	provider := newProvider(ctx, cfg, logger)
	channels := config.LoadChannelSources(cfg.ChannelsFile)
	keywords := config.LoadKeywordSources(cfg.KeywordsFile)
	if len(channels) == 0 && len(keywords) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no channels or keywords configured (%s, %s)\n",
			cfg.ChannelsFile, cfg.KeywordsFile)
		os.Exit(1)
	}
	limits := tracker.DiscoveryLimits{
		PerChannel: cfg.MaxPerChannel,
		PerKeyword: cfg.MaxPerKeyword,
	}

	build := func(ctx context.Context) (*snapshot.Snapshot, error) {
		return tracker.BuildDiscovered(ctx, provider, channels, keywords, limits, time.Now(), logger)
	}
	if runPipeline(ctx, cfg, logger, nil, build, metric, n) {
		if err := guard.SetLastRun(ctx, time.Now()); err != nil {
			logger.Warn("updating run guard", zap.Error(err))
		}
	}
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "Listen address (overrides config)")
	verbose := fs.Bool("verbose", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytmovers serve [flags]\n\nServes the HTML dashboard and refreshes the snapshot on a schedule.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig()
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	logger := newLogger(*verbose)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := storage.NewJSONSnapshotStore(cfg.SnapshotFile, logger)
	guard := storage.NewFileRunGuard(cfg.GuardFile)

	// The dashboard can run read-only without an API key.
	var provider youtube.StatsProvider
	if cfg.APIKey != "" {
		provider = newProvider(ctx, cfg, logger)
	} else {
		logger.Warn("no API key configured, dashboard serves stored data only")
	}

	srv, err := web.NewServer(cfg, store, guard, provider, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
