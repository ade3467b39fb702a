package snapshot

// ComputeDeltas computes per-video deltas between a previous and a current
// snapshot. It is a pure function: no I/O, no mutation of either input, and
// identical inputs always yield identical output.
//
// prev may be nil (first-ever run, or the stored snapshot failed to load).
// In that case every key in curr maps to an all-absent Delta; a missing
// baseline is a normal condition, not an error.
func ComputeDeltas(prev, curr *Snapshot) DeltaSet {
	deltas := make(DeltaSet, len(curr.Videos))

	if prev == nil {
		for key := range curr.Videos {
			deltas[key] = Delta{}
		}
		return deltas
	}

	for key, cm := range curr.Videos {
		pm, ok := prev.Videos[key]
		if !ok {
			// New since baseline.
			deltas[key] = Delta{}
			continue
		}

		d := Delta{
			Views:       diff(cm.Views, pm.Views),
			Likes:       diff(cm.Likes, pm.Likes),
			Comments:    diff(cm.Comments, pm.Comments),
			Subscribers: diff(cm.Subscribers, pm.Subscribers),
		}

		// Percentage is only meaningful against a strictly positive
		// baseline; a zero baseline yields absent, never Inf.
		if d.Views != nil && pm.Views > 0 {
			pct := float64(*d.Views) / float64(pm.Views) * 100.0
			d.ViewsPct = &pct
		}

		deltas[key] = d
	}

	return deltas
}

// diff returns the signed difference curr-prev. Counts can decrease when
// the provider corrects inflated numbers or a video is removed.
func diff(curr, prev int64) *int64 {
	d := curr - prev
	return &d
}

// ViewsAsDeltas builds a synthetic DeltaSet where each video's views delta
// equals its current view count. It lets callers reuse TopN to rank a single
// snapshot by raw views (the "show last snapshot" and web dashboard paths).
func ViewsAsDeltas(s *Snapshot) DeltaSet {
	deltas := make(DeltaSet, len(s.Videos))
	zero := int64(0)
	for key, m := range s.Videos {
		views := m.Views
		deltas[key] = Delta{
			Views:       &views,
			Likes:       &zero,
			Comments:    &zero,
			Subscribers: &zero,
		}
	}
	return deltas
}
