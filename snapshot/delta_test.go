package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(t *testing.T, videos map[string]Metrics) *Snapshot {
	t.Helper()
	s, err := New("test-run", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), videos)
	require.NoError(t, err)
	return s
}

func TestComputeDeltasNoBaseline(t *testing.T) {
	curr := snap(t, map[string]Metrics{
		"a": {VideoID: "vid-a", Views: 100},
		"b": {VideoID: "vid-b", Views: 5, Likes: 2},
	})

	deltas := ComputeDeltas(nil, curr)

	require.Len(t, deltas, 2)
	for key, d := range deltas {
		assert.Nil(t, d.Views, "views delta for %q", key)
		assert.Nil(t, d.Likes, "likes delta for %q", key)
		assert.Nil(t, d.Comments, "comments delta for %q", key)
		assert.Nil(t, d.Subscribers, "subscribers delta for %q", key)
		assert.Nil(t, d.ViewsPct, "views pct for %q", key)
	}
}

func TestComputeDeltasSharedKey(t *testing.T) {
	tests := []struct {
		name      string
		prev      Metrics
		curr      Metrics
		wantViews int64
		wantSubs  int64
		wantPct   *float64
	}{
		{
			name:      "growth",
			prev:      Metrics{Views: 100, Likes: 10, Comments: 1, Subscribers: 1000},
			curr:      Metrics{Views: 150, Likes: 12, Comments: 3, Subscribers: 1100},
			wantViews: 50,
			wantSubs:  100,
			wantPct:   ptrFloat(50.0),
		},
		{
			name:      "negative delta after correction",
			prev:      Metrics{Views: 200, Subscribers: 500},
			curr:      Metrics{Views: 180, Subscribers: 450},
			wantViews: -20,
			wantSubs:  -50,
			wantPct:   ptrFloat(-10.0),
		},
		{
			name:      "zero baseline views guards percentage",
			prev:      Metrics{Views: 0},
			curr:      Metrics{Views: 20},
			wantViews: 20,
			wantSubs:  0,
			wantPct:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := snap(t, map[string]Metrics{"k": tt.prev})
			curr := snap(t, map[string]Metrics{"k": tt.curr})

			d := ComputeDeltas(prev, curr)["k"]

			require.NotNil(t, d.Views)
			assert.Equal(t, tt.wantViews, *d.Views)
			require.NotNil(t, d.Subscribers)
			assert.Equal(t, tt.wantSubs, *d.Subscribers)

			if tt.wantPct == nil {
				assert.Nil(t, d.ViewsPct)
			} else {
				require.NotNil(t, d.ViewsPct)
				assert.InDelta(t, *tt.wantPct, *d.ViewsPct, 1e-9)
			}
		})
	}
}

func TestComputeDeltasNewVideoIsAbsent(t *testing.T) {
	prev := snap(t, map[string]Metrics{"a": {Views: 100}})
	curr := snap(t, map[string]Metrics{
		"a": {Views: 150},
		"b": {Views: 10},
	})

	deltas := ComputeDeltas(prev, curr)

	require.NotNil(t, deltas["a"].Views)
	assert.Equal(t, int64(50), *deltas["a"].Views)
	require.NotNil(t, deltas["a"].ViewsPct)
	assert.InDelta(t, 50.0, *deltas["a"].ViewsPct, 1e-9)

	assert.Nil(t, deltas["b"].Views)
	assert.Nil(t, deltas["b"].ViewsPct)
}

func TestComputeDeltasVideoGoneFromCurrent(t *testing.T) {
	prev := snap(t, map[string]Metrics{
		"a": {Views: 100},
		"gone": {Views: 9},
	})
	curr := snap(t, map[string]Metrics{"a": {Views: 110}})

	deltas := ComputeDeltas(prev, curr)

	// Deltas exist only for keys in the current snapshot.
	require.Len(t, deltas, 1)
	_, ok := deltas["gone"]
	assert.False(t, ok)
}

func TestComputeDeltasIdempotent(t *testing.T) {
	prev := snap(t, map[string]Metrics{"a": {Views: 100, Likes: 5}})
	curr := snap(t, map[string]Metrics{"a": {Views: 175, Likes: 9}})

	first := ComputeDeltas(prev, curr)
	second := ComputeDeltas(prev, curr)

	require.Len(t, second, len(first))
	for key := range first {
		assert.Equal(t, *first[key].Views, *second[key].Views)
		assert.Equal(t, *first[key].Likes, *second[key].Likes)
		assert.InDelta(t, *first[key].ViewsPct, *second[key].ViewsPct, 1e-12)
	}

	// Inputs must not have been mutated.
	assert.Equal(t, int64(100), prev.Videos["a"].Views)
	assert.Equal(t, int64(175), curr.Videos["a"].Views)
}

func TestNewRejectsNegativeCounts(t *testing.T) {
	_, err := New("run", time.Now(), map[string]Metrics{
		"bad": {VideoID: "v", Views: -1},
	})
	require.Error(t, err)
}

func TestViewsAsDeltas(t *testing.T) {
	s := snap(t, map[string]Metrics{
		"a": {Views: 42},
		"b": {Views: 7},
	})

	deltas := ViewsAsDeltas(s)

	require.NotNil(t, deltas["a"].Views)
	assert.Equal(t, int64(42), *deltas["a"].Views)
	require.NotNil(t, deltas["b"].Views)
	assert.Equal(t, int64(7), *deltas["b"].Views)
	assert.Nil(t, deltas["a"].ViewsPct)
}

func ptrFloat(f float64) *float64 { return &f }
