package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadChannelSources(t *testing.T) {
	path := writeFile(t, "channels.json", `[
		{"key": "boyboy", "channel_id": "UCmw8GoxPruduCJAR_qLfXDw", "label": "Boy Boy"},
		{"key": "lbc", "channel_id": "UCE2606prvXQc_noEqKxVJXA", "label": "LBC"}
	]`)

	sources := LoadChannelSources(path)

	require.Len(t, sources, 2)
	assert.Equal(t, "boyboy", sources[0].Key)
	assert.Equal(t, "UCmw8GoxPruduCJAR_qLfXDw", sources[0].ChannelID)
	assert.Equal(t, "LBC", sources[1].Label)
}

func TestLoadChannelSourcesDegradesToEmpty(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		assert.Empty(t, LoadChannelSources(filepath.Join(t.TempDir(), "nope.json")))
	})
	t.Run("malformed file", func(t *testing.T) {
		path := writeFile(t, "channels.json", "{not json")
		assert.Empty(t, LoadChannelSources(path))
	})
	t.Run("wrong shape", func(t *testing.T) {
		path := writeFile(t, "channels.json", `{"key": "not-a-list"}`)
		assert.Empty(t, LoadChannelSources(path))
	})
}

func TestLoadKeywordSources(t *testing.T) {
	path := writeFile(t, "keywords.json", `[
		{"key": "politics", "queries": ["election debate", "senate hearing"], "label": "Politics"}
	]`)

	sources := LoadKeywordSources(path)

	require.Len(t, sources, 1)
	assert.Equal(t, "politics", sources[0].Key)
	assert.Equal(t, []string{"election debate", "senate hearing"}, sources[0].Queries)
}

func TestLoadKeywordSourcesDegradesToEmpty(t *testing.T) {
	assert.Empty(t, LoadKeywordSources(filepath.Join(t.TempDir(), "nope.json")))

	path := writeFile(t, "keywords.json", "]]")
	assert.Empty(t, LoadKeywordSources(path))
}

func TestLoadTracked(t *testing.T) {
	path := writeFile(t, "tracked.json", `{
		"mychannel_abc123": {"channel_name": "My Channel", "video_id": "abc123", "label": "My Channel – pilot"}
	}`)

	reg := LoadTracked(path)

	require.Len(t, reg, 1)
	assert.Equal(t, "abc123", reg["mychannel_abc123"].VideoID)
	assert.Equal(t, "My Channel – pilot", reg["mychannel_abc123"].Label)
}

func TestLoadTrackedFallsBackToDefaults(t *testing.T) {
	missing := LoadTracked(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, DefaultTracked(), missing)

	malformed := LoadTracked(writeFile(t, "tracked.json", "oops"))
	assert.Equal(t, DefaultTracked(), malformed)

	empty := LoadTracked(writeFile(t, "tracked.json", "{}"))
	assert.Equal(t, DefaultTracked(), empty)
}
