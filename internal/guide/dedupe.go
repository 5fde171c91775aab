// SPDX-License-Identifier: MIT

package guide

// channelStats collects per-channel counters. Each channel is processed
// by one goroutine, so no locking is needed; totals are merged after the
// join.
type channelStats struct {
	inferred   int
	duplicates int
	overlaps   int
	warnings   int
	unresolved int
}

// dedupe walks one sorted channel sequence once. Each record is first
// sanity-checked (start must not exceed a defined stop). Exact duplicates
// of the preceding record are dropped silently; overlap between surviving
// neighbours is reported but both records are kept, because overlap is a
// property of the source data and not the engine's to resolve by
// deletion. Indeterminate clump pairings on same-start neighbours are
// reported here, once per pair.
func dedupe(channel string, recs []*rec, rep Reporter, stats *channelStats) []*rec {
	out := make([]*rec, 0, len(recs))
	var prev *rec
	for _, r := range recs {
		if r.hasStop && r.start.After(r.stop) {
			rep.StartAfterStop(channel, r.ref())
			stats.warnings++
		}
		if prev != nil {
			if equalRecs(prev, r) {
				stats.duplicates++
				continue
			}
			if prev.start.Equal(r.start) && clumpIndeterminate(prev.clump, r.clump) {
				rep.ClumpMismatch(channel, prev.ref(), r.ref())
				stats.warnings++
			}
			if overlaps(prev, r) {
				rep.Overlap(channel, prev.ref(), r.ref())
				stats.overlaps++
			}
		}
		out = append(out, r)
		prev = r
	}
	return out
}
