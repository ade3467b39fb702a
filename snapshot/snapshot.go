// Package snapshot defines the metrics snapshot data model and the pure
// delta-computation and ranking logic that sits at the center of ytmovers.
//
// A Snapshot is an immutable point-in-time record of per-video counters.
// Two snapshots (previous and current) are compared by ComputeDeltas, and
// TopN selects the biggest movers for display. Neither function performs
// any I/O; acquisition and persistence live in the youtube and storage
// packages.
package snapshot

import (
	"fmt"
	"time"
)

// Snapshot is an immutable record of metrics for a set of tracked videos,
// taken at a single point in time. Keys are stable identifiers that
// correlate entries across runs even when the discovered set changes.
type Snapshot struct {
	// RunID uniquely identifies the run that produced this snapshot.
	RunID string `json:"run_id"`
	// TakenAt is when the snapshot was captured, second precision.
	TakenAt time.Time `json:"taken_at"`
	// Videos maps entity key to the metrics observed for that video.
	Videos map[string]Metrics `json:"videos"`
}

// Metrics holds the counters observed for a single video.
type Metrics struct {
	ChannelName string `json:"channel_name"`
	VideoID     string `json:"video_id"`
	Views       int64  `json:"views"`
	Likes       int64  `json:"likes"`
	Comments    int64  `json:"comments"`
	Subscribers int64  `json:"subscribers"`
	Label       string `json:"label"`
}

// Validate rejects metrics a misbehaving provider could report. Counts are
// validated at the snapshot boundary so the delta engine never has to guard
// against negative baselines.
func (m Metrics) Validate() error {
	if m.Views < 0 || m.Likes < 0 || m.Comments < 0 || m.Subscribers < 0 {
		return fmt.Errorf("metrics for video %q: negative count", m.VideoID)
	}
	return nil
}

// Delta holds the signed per-metric changes for one video between two
// snapshots. A nil field means the delta could not be computed (the video
// was missing from the baseline, or there was no baseline at all), which is
// distinct from a computed zero.
type Delta struct {
	Views       *int64   `json:"views_delta"`
	Likes       *int64   `json:"likes_delta"`
	Comments    *int64   `json:"comments_delta"`
	Subscribers *int64   `json:"subscribers_delta"`
	ViewsPct    *float64 `json:"views_delta_pct"`
}

// DeltaSet maps entity key to its computed Delta.
type DeltaSet map[string]Delta

// TrackedVideo is one entry in the static registry of videos followed
// across runs. The registry is read-only configuration injected into the
// ranker for label fallback and into snapshot builders for the fetch list.
type TrackedVideo struct {
	ChannelName string `json:"channel_name"`
	VideoID     string `json:"video_id"`
	Label       string `json:"label"`
}

// Registry maps entity key to its tracked-video entry.
type Registry map[string]TrackedVideo

// New builds a snapshot from a set of per-key metrics. Entries with
// invalid (negative) counts are rejected.
func New(runID string, takenAt time.Time, videos map[string]Metrics) (*Snapshot, error) {
	for key, m := range videos {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("snapshot entry %q: %w", key, err)
		}
	}
	return &Snapshot{
		RunID:   runID,
		TakenAt: takenAt.Truncate(time.Second),
		Videos:  videos,
	}, nil
}

// Empty reports whether the snapshot carries no video entries.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Videos) == 0
}
