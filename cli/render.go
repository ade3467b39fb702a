package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"ytmovers/snapshot"
)

const (
	gridColumns  = 4
	gridLabelLen = 20
)

// renderGrid prints ranked rows as a grid of "label: value" cells,
// gridColumns per line, aligned with tabwriter. Labels are truncated so
// the grid stays within a normal terminal width.
func renderGrid(w io.Writer, rows []snapshot.RankedRow, metric snapshot.Metric) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "Nothing to show.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, row := range rows {
		fmt.Fprintf(tw, "%s: %s", truncateLabel(row.Label, gridLabelLen), formatValue(row, metric))
		if (i+1)%gridColumns == 0 || i == len(rows)-1 {
			fmt.Fprintln(tw)
		} else {
			fmt.Fprint(tw, "\t")
		}
	}
	tw.Flush()
}

func formatValue(row snapshot.RankedRow, metric snapshot.Metric) string {
	if metric.Percent() {
		return fmt.Sprintf("%+.1f%%", row.Delta)
	}
	return fmt.Sprintf("%+d", int64(row.Delta))
}

// truncateLabel cuts s to max runes, marking the cut with an ellipsis.
func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
