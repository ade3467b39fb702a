package tracker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ytmovers/config"
	"ytmovers/snapshot"
	"ytmovers/youtube"
)

// labelTitleLen caps the title portion of a discovered video's label.
const labelTitleLen = 50

// BuildTracked builds a snapshot from live stats for every video in the
// static registry. Videos the provider did not return (deleted, private, or
// lost to a failed batch) are omitted; a partial snapshot is acceptable and
// must not abort the run.
func BuildTracked(ctx context.Context, provider youtube.StatsProvider, reg snapshot.Registry, now time.Time) (*snapshot.Snapshot, error) {
	keys := make([]string, 0, len(reg))
	for key := range reg {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, reg[key].VideoID)
	}

	stats, err := provider.VideoStats(ctx, ids)
	if err != nil {
		return nil, err
	}

	videos := make(map[string]snapshot.Metrics, len(stats))
	for _, key := range keys {
		tv := reg[key]
		s, ok := stats[tv.VideoID]
		if !ok {
			continue
		}

		channelName := s.ChannelTitle
		if channelName == "" {
			channelName = tv.ChannelName
		}
		label := tv.Label
		if label == "" {
			label = key
		}

		videos[key] = snapshot.Metrics{
			ChannelName: channelName,
			VideoID:     tv.VideoID,
			Views:       s.Views,
			Likes:       s.Likes,
			Comments:    s.Comments,
			Subscribers: 0, // videos.list does not carry subscriber counts
			Label:       label,
		}
	}

	return snapshot.New(uuid.NewString(), now, videos)
}

// DiscoveryLimits bounds how many videos each source contributes.
type DiscoveryLimits struct {
	PerChannel int64
	PerKeyword int64
}

// discovered records where a video ID was first seen during discovery.
type discovered struct {
	videoID     string
	sourceType  string
	sourceKey   string
	sourceLabel string
}

// BuildDiscovered builds a snapshot from recent uploads of the configured
// channels plus recent matches for the configured keyword queries. Video IDs
// are deduplicated across all sources; the first source to find an ID keeps
// it. A source that fails is logged and skipped, never fatal. Zero
// discoveries yield an empty snapshot, which Tracker.Run refuses to persist.
func BuildDiscovered(
	ctx context.Context,
	provider youtube.StatsProvider,
	channels []config.ChannelSource,
	keywords []config.KeywordSource,
	limits DiscoveryLimits,
	now time.Time,
	logger *zap.Logger,
) (*snapshot.Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	seen := make(map[string]bool)
	var found []discovered

	for _, ch := range channels {
		if ch.ChannelID == "" {
			continue
		}
		label := ch.Label
		if label == "" {
			label = ch.Key
		}

		ids, err := provider.ChannelUploads(ctx, ch.ChannelID, limits.PerChannel)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logger.Warn("channel discovery failed, skipping source",
				zap.String("channel", ch.Key), zap.Error(err))
			continue
		}

		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			found = append(found, discovered{
				videoID:     id,
				sourceType:  "channel",
				sourceKey:   ch.Key,
				sourceLabel: label,
			})
		}
	}

	for _, kw := range keywords {
		label := kw.Label
		if label == "" {
			label = kw.Key
		}

		for _, query := range kw.Queries {
			ids, err := provider.SearchVideos(ctx, query, limits.PerKeyword)
			if err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				logger.Warn("keyword discovery failed, skipping query",
					zap.String("keyword", kw.Key), zap.String("query", query), zap.Error(err))
				continue
			}

			for _, id := range ids {
				if seen[id] {
					continue
				}
				seen[id] = true
				found = append(found, discovered{
					videoID:     id,
					sourceType:  "keyword",
					sourceKey:   kw.Key,
					sourceLabel: label,
				})
			}
		}
	}

	if len(found) == 0 {
		// Quota, config, or connectivity problem. The empty snapshot lets
		// the caller apply the keep-previous-baseline policy.
		return snapshot.New(uuid.NewString(), now, nil)
	}

	ids := make([]string, len(found))
	for i, d := range found {
		ids[i] = d.videoID
	}

	stats, err := provider.VideoStats(ctx, ids)
	if err != nil {
		return nil, err
	}

	videos := make(map[string]snapshot.Metrics, len(stats))
	for _, d := range found {
		s, ok := stats[d.videoID]
		if !ok {
			continue
		}

		key := fmt.Sprintf("%s_%s_%s", d.sourceType, d.sourceKey, d.videoID)
		videos[key] = snapshot.Metrics{
			ChannelName: s.ChannelTitle,
			VideoID:     d.videoID,
			Views:       s.Views,
			Likes:       s.Likes,
			Comments:    s.Comments,
			Subscribers: 0,
			Label:       d.sourceLabel + " – " + truncate(s.Title, labelTitleLen),
		}
	}

	return snapshot.New(uuid.NewString(), now, videos)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
