// Package youtube fetches video statistics and discovers videos through the
// YouTube Data API v3. It is the only package that talks to the network;
// the snapshot and tracker packages consume it through StatsProvider.
package youtube

import (
	"context"
	"errors"
	"fmt"
)

// VideoStats is the per-video result of a bulk stats fetch.
type VideoStats struct {
	Title        string
	ChannelTitle string
	Views        int64
	Likes        int64
	Comments     int64
}

// StatsProvider is the provider contract consumed by snapshot builders.
type StatsProvider interface {
	// VideoStats returns current statistics keyed by video ID. The input is
	// batched internally (the API caps at 50 IDs per call). On a mid-batch
	// transport failure the results collected so far are returned with a nil
	// error: a partial snapshot beats an aborted run.
	VideoStats(ctx context.Context, ids []string) (map[string]VideoStats, error)

	// ChannelUploads returns up to max recent video IDs from a channel's
	// uploads playlist. An unknown channel yields an empty list, not an error.
	ChannelUploads(ctx context.Context, channelID string, max int64) ([]string, error)

	// SearchVideos returns up to max video IDs matching a text query,
	// newest first.
	SearchVideos(ctx context.Context, query string, max int64) ([]string, error)
}

// Sentinel errors.
var (
	// ErrMissingAPIKey indicates no API key was configured. This is a
	// configuration error: fatal for the calling pathway, never retried.
	ErrMissingAPIKey = errors.New("youtube: api key required")
)

// ProviderError wraps errors from a provider call with its operation context.
type ProviderError struct {
	// Op is the failing call ("video_stats", "channel_uploads", "search").
	Op string
	// Target is the id or query the call was made for, if applicable.
	Target string
	// Err is the underlying error.
	Err error
}

func (e *ProviderError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("youtube: %s %q: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("youtube: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
