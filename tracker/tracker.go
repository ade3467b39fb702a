// Package tracker orchestrates a single run of the snapshot pipeline:
// acquire a current snapshot, compute deltas against the stored baseline,
// rank the top movers, and persist the new snapshot for the next run.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ytmovers/snapshot"
	"ytmovers/storage"
)

// ErrEmptySnapshot is returned when an acquisition pathway yields zero
// videos. The run is abandoned without ranking and, critically, without
// overwriting the stored previous snapshot: a quota failure or a bad config
// must never destroy the baseline.
var ErrEmptySnapshot = errors.New("tracker: snapshot has no videos")

// GuardWindow is the minimum interval between discovery runs. Discovery
// fans out over the search and playlist endpoints, which burn quota far
// faster than plain stats lookups, so callers consult a storage.RunGuard
// before starting one.
const GuardWindow = 24 * time.Hour

// Builder produces the current snapshot for a run. The three producers
// (manual entry, tracked-registry fetch, discovery) are interchangeable
// from the pipeline's point of view.
type Builder func(ctx context.Context) (*snapshot.Snapshot, error)

// Result is the outcome of one pipeline run.
type Result struct {
	Previous *snapshot.Snapshot
	Current  *snapshot.Snapshot
	Deltas   snapshot.DeltaSet
	Top      []snapshot.RankedRow
}

// Tracker runs the snapshot pipeline against a store and a registry.
type Tracker struct {
	store    storage.SnapshotStore
	registry snapshot.Registry
	logger   *zap.Logger
}

// New creates a Tracker. registry may be nil when no static registry is in
// play (pure discovery runs); logger may be nil.
func New(store storage.SnapshotStore, registry snapshot.Registry, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:    store,
		registry: registry,
		logger:   logger.Named("tracker"),
	}
}

// Run executes one pipeline pass: load the baseline, build the current
// snapshot, compute deltas, rank the top n movers by metric, and persist
// the current snapshot as the next run's baseline.
//
// A failing baseline load degrades to "no previous snapshot" and the run
// continues with all-absent deltas. An empty current snapshot aborts with
// ErrEmptySnapshot before anything is written. If the final save fails the
// computed Result is still returned alongside the error so the caller can
// display it.
func (t *Tracker) Run(ctx context.Context, build Builder, metric snapshot.Metric, n int) (*Result, error) {
	prev, err := t.store.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		t.logger.Warn("loading previous snapshot failed, continuing without baseline", zap.Error(err))
		prev = nil
	}

	curr, err := build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	if curr.Empty() {
		return nil, ErrEmptySnapshot
	}

	deltas := snapshot.ComputeDeltas(prev, curr)
	top := snapshot.TopN(curr, deltas, t.registry, metric, n)

	res := &Result{
		Previous: prev,
		Current:  curr,
		Deltas:   deltas,
		Top:      top,
	}

	if err := t.store.Save(ctx, curr); err != nil {
		return res, fmt.Errorf("save snapshot: %w", err)
	}

	t.logger.Info("run complete",
		zap.Int("videos", len(curr.Videos)),
		zap.Int("ranked", len(top)),
		zap.String("metric", string(metric)),
		zap.Bool("had_baseline", prev != nil))

	return res, nil
}
