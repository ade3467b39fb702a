// Package ytmovers tracks how YouTube video metrics move between runs.
//
// Each run takes a snapshot of view, like, comment and subscriber counts
// for a set of videos, diffs it against the snapshot stored by the previous
// run, and ranks the biggest movers. The new snapshot then replaces the old
// one as the next run's baseline.
//
// Overview
//
// The pipeline is split across sub-packages:
//
//   - snapshot: the data model, delta computation and top-N ranking
//   - youtube: stats acquisition via the YouTube Data API v3
//   - storage: the single-snapshot JSON store and the discovery run guard
//   - tracker: the run orchestrator and the three snapshot builders
//     (tracked registry fetch, discovery, manual entry)
//   - web: the HTML dashboard
//
// Quick Start
//
// Run one tracked-registry pass and print the top movers:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx := context.Background()
//	provider, err := youtube.NewAPIProvider(ctx, cfg.APIKey)
//	if err != nil {
//		log.Fatal(err)
//	}
//	reg := config.LoadTracked(cfg.TrackedFile)
//	store := storage.NewJSONSnapshotStore(cfg.SnapshotFile, nil)
//	tr := tracker.New(store, reg, nil)
//	res, err := tr.Run(ctx, func(ctx context.Context) (*snapshot.Snapshot, error) {
//		return tracker.BuildTracked(ctx, provider, reg, time.Now())
//	}, snapshot.MetricViews, cfg.TopN)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, row := range res.Top {
//		fmt.Printf("%s: %+.0f\n", row.Label, row.Delta)
//	}
//
// Configuration
//
// Settings load from three sources, highest priority first:
//
//   1. Environment variables (YTMOVERS_API_KEY, YTMOVERS_SNAPSHOT_FILE, ...)
//   2. Config file (ytmovers.json or ~/.config/ytmovers/ytmovers.json)
//   3. Defaults
//
// Error Handling
//
// Sentinel errors support errors.Is and wrapper types support errors.As:
//
//	if errors.Is(err, ytmovers.ErrEmptySnapshot) {
//		fmt.Println("nothing found, baseline kept")
//	}
//
//	var provErr *ytmovers.ProviderError
//	if errors.As(err, &provErr) {
//		fmt.Printf("%s failed for %s: %v\n", provErr.Op, provErr.Target, provErr.Err)
//	}
//
// The first run has no baseline: every delta is absent and renders as n/a.
// An acquisition pass that finds nothing never overwrites the stored
// snapshot, and a corrupt snapshot file degrades to "no baseline" instead
// of aborting the run.
package ytmovers
