package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"ytmovers/internal/retry"
)

// maxIDsPerCall is the Data API cap on video IDs per videos.list request.
const maxIDsPerCall = 50

// APIProvider implements StatsProvider using YouTube Data API v3.
// Requests are paced with a token bucket and retried with exponential
// backoff; quota and rate-limit errors are retryable, bad credentials and
// unknown resources are permanent.
type APIProvider struct {
	service     *youtubeapi.Service
	limiter     *rate.Limiter
	retryConfig retry.Config
	logger      *zap.Logger
}

// APIOption customizes an APIProvider.
type APIOption func(*APIProvider)

// WithRateLimit sets the requests-per-second pacing for API calls.
func WithRateLimit(rps float64) APIOption {
	return func(p *APIProvider) {
		if rps > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(cfg retry.Config) APIOption {
	return func(p *APIProvider) { p.retryConfig = cfg }
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) APIOption {
	return func(p *APIProvider) {
		if logger != nil {
			p.logger = logger.Named("youtube")
		}
	}
}

// NewAPIProvider creates a Data API v3 provider. A missing API key is a
// configuration error surfaced immediately, never retried.
func NewAPIProvider(ctx context.Context, apiKey string, opts ...APIOption) (*APIProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	service, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	p := &APIProvider{
		service:     service,
		limiter:     rate.NewLimiter(rate.Limit(1.0), 1),
		retryConfig: retry.DefaultConfig(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// VideoStats fetches statistics for the given video IDs in batches of 50.
// IDs the API does not return (deleted or private videos) are simply missing
// from the result. If a batch fails even after retries, the stats collected
// from earlier batches are returned with a nil error.
func (p *APIProvider) VideoStats(ctx context.Context, ids []string) (map[string]VideoStats, error) {
	stats := make(map[string]VideoStats, len(ids))

	for _, batch := range batchIDs(ids, maxIDsPerCall) {
		if err := p.limiter.Wait(ctx); err != nil {
			return stats, err
		}

		var resp *youtubeapi.VideoListResponse
		err := retry.Do(ctx, p.retryConfig, apiErrorClassifier, func(ctx context.Context) error {
			call := p.service.Videos.List([]string{"snippet", "statistics"}).
				Id(batch...).
				Context(ctx)

			r, err := call.Do()
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			p.logger.Warn("stats batch failed, returning partial results",
				zap.Int("batch_size", len(batch)),
				zap.Int("collected", len(stats)),
				zap.Error(err))
			return stats, nil
		}

		for _, item := range resp.Items {
			vs := VideoStats{}
			if item.Snippet != nil {
				vs.Title = item.Snippet.Title
				vs.ChannelTitle = item.Snippet.ChannelTitle
			}
			if item.Statistics != nil {
				vs.Views = int64(item.Statistics.ViewCount)
				vs.Likes = int64(item.Statistics.LikeCount)
				vs.Comments = int64(item.Statistics.CommentCount)
			}
			stats[item.Id] = vs
		}
	}

	return stats, nil
}

// ChannelUploads lists up to max recent video IDs from the channel's uploads
// playlist. This route costs 2 quota units instead of the 100 that
// search.list charges. An unknown channel yields an empty list.
func (p *APIProvider) ChannelUploads(ctx context.Context, channelID string, max int64) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var uploadsID string
	err := retry.Do(ctx, p.retryConfig, apiErrorClassifier, func(ctx context.Context) error {
		call := p.service.Channels.List([]string{"contentDetails"}).
			Id(channelID).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return retry.ErrNotFound
		}
		uploadsID = resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
		return nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrNotFound) {
			p.logger.Warn("no channel found", zap.String("channel_id", channelID))
			return nil, nil
		}
		return nil, &ProviderError{Op: "channel_uploads", Target: channelID, Err: err}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var ids []string
	err = retry.Do(ctx, p.retryConfig, apiErrorClassifier, func(ctx context.Context) error {
		call := p.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(uploadsID).
			MaxResults(max).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}
		ids = ids[:0]
		for _, item := range resp.Items {
			ids = append(ids, item.ContentDetails.VideoId)
		}
		return nil
	})
	if err != nil {
		return nil, &ProviderError{Op: "channel_uploads", Target: channelID, Err: err}
	}

	return ids, nil
}

// SearchVideos returns up to max video IDs matching query, newest first.
func (p *APIProvider) SearchVideos(ctx context.Context, query string, max int64) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var ids []string
	err := retry.Do(ctx, p.retryConfig, apiErrorClassifier, func(ctx context.Context) error {
		call := p.service.Search.List([]string{"id"}).
			Q(query).
			Order("date").
			Type("video").
			MaxResults(max).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}
		ids = ids[:0]
		for _, item := range resp.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				ids = append(ids, item.Id.VideoId)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &ProviderError{Op: "search", Target: query, Err: err}
	}

	return ids, nil
}

// batchIDs splits ids into chunks of at most size.
func batchIDs(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}

// apiErrorClassifier determines if a Data API error is retryable.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, retry.ErrNotFound) || errors.Is(err, ErrMissingAPIKey) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Bad credentials never recover on retry.
	if strings.Contains(err.Error(), "API key not valid") {
		return false
	}

	// Quota and rate-limit errors back off and retry.
	if strings.Contains(err.Error(), "quotaExceeded") {
		return true
	}
	if strings.Contains(err.Error(), "rateLimitExceeded") {
		return true
	}

	// Default to retryable for unknown errors
	return true
}
