package snapshot

import (
	"fmt"
	"sort"
)

// Metric selects which delta field a ranking is computed over.
type Metric string

const (
	MetricViews       Metric = "views_delta"
	MetricLikes       Metric = "likes_delta"
	MetricComments    Metric = "comments_delta"
	MetricSubscribers Metric = "subscribers_delta"
	MetricViewsPct    Metric = "views_delta_pct"
)

// ParseMetric converts a metric name into a Metric, for CLI flags.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricViews, MetricLikes, MetricComments, MetricSubscribers, MetricViewsPct:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Percent reports whether the metric is a percentage, which renderers
// format with one decimal place and a % sign instead of a raw integer.
func (m Metric) Percent() bool { return m == MetricViewsPct }

// RankedRow is one entry of a top-movers ranking.
type RankedRow struct {
	Key          string
	ChannelName  string
	VideoID      string
	Label        string
	CurrentViews int64
	// Delta is the value of the ranked metric. Integer metrics are carried
	// as exact float64 values (counts stay far below 2^53).
	Delta float64
	// Percent mirrors Metric.Percent for the renderer.
	Percent bool
}

// TopN selects up to n videos from curr, ranked descending by the chosen
// delta metric. Videos whose delta for the metric is absent are excluded
// entirely; they never appear with a synthetic zero.
//
// Labels resolve in strict order: the label stored on the snapshot entry,
// then the registry label, then the entity key itself. Registry labels are
// a last resort for legacy tracked videos, never an override.
//
// Ties sort ascending by entity key so the ordering is deterministic.
// TopN is pure: it does not modify curr, deltas, or reg.
func TopN(curr *Snapshot, deltas DeltaSet, reg Registry, metric Metric, n int) []RankedRow {
	rows := make([]RankedRow, 0, len(curr.Videos))

	for key, m := range curr.Videos {
		value, ok := metricValue(deltas[key], metric)
		if !ok {
			continue
		}

		label := m.Label
		if label == "" {
			label = reg[key].Label
		}
		if label == "" {
			label = key
		}

		rows = append(rows, RankedRow{
			Key:          key,
			ChannelName:  m.ChannelName,
			VideoID:      m.VideoID,
			Label:        label,
			CurrentViews: m.Views,
			Delta:        value,
			Percent:      metric.Percent(),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Delta != rows[j].Delta {
			return rows[i].Delta > rows[j].Delta
		}
		return rows[i].Key < rows[j].Key
	})

	if n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// metricValue extracts the requested metric from a Delta. The second return
// is false when the value is absent (nil field, or the key had no Delta at
// all and the zero Delta's fields are nil).
func metricValue(d Delta, metric Metric) (float64, bool) {
	switch metric {
	case MetricViews:
		if d.Views != nil {
			return float64(*d.Views), true
		}
	case MetricLikes:
		if d.Likes != nil {
			return float64(*d.Likes), true
		}
	case MetricComments:
		if d.Comments != nil {
			return float64(*d.Comments), true
		}
	case MetricSubscribers:
		if d.Subscribers != nil {
			return float64(*d.Subscribers), true
		}
	case MetricViewsPct:
		if d.ViewsPct != nil {
			return *d.ViewsPct, true
		}
	}
	return 0, false
}
