package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ytmovers/snapshot"
)

func TestRenderGridEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderGrid(&buf, nil, snapshot.MetricViews)
	assert.Equal(t, "Nothing to show.\n", buf.String())
}

func TestRenderGridRowsOfFour(t *testing.T) {
	rows := []snapshot.RankedRow{
		{Label: "one", Delta: 10},
		{Label: "two", Delta: -3},
		{Label: "three", Delta: 0},
		{Label: "four", Delta: 7},
		{Label: "five", Delta: 2},
	}
	var buf bytes.Buffer
	renderGrid(&buf, rows, snapshot.MetricViews)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "one: +10")
	assert.Contains(t, lines[0], "two: -3")
	assert.Contains(t, lines[0], "three: +0")
	assert.Contains(t, lines[0], "four: +7")
	assert.Contains(t, lines[1], "five: +2")
}

func TestRenderGridPercentMetric(t *testing.T) {
	rows := []snapshot.RankedRow{
		{Label: "clip", Delta: 12.349, Percent: true},
	}
	var buf bytes.Buffer
	renderGrid(&buf, rows, snapshot.MetricViewsPct)
	assert.Contains(t, buf.String(), "clip: +12.3%")
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 20, "short"},
		{"exactly twenty chars", 20, "exactly twenty chars"},
		{"a label that runs well past the limit", 20, "a label that runs w…"},
		{"ünïcödé länge etikettentext", 20, "ünïcödé länge etike…"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateLabel(tt.in, tt.max))
	}
}
