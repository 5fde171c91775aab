// SPDX-License-Identifier: MIT

package guide

// inferStops fills missing stop times on an already-sorted channel
// sequence, mutating records in place. A programme without a stop takes
// its successor's start when that is strictly later, or the successor's
// stop when both start together (propagating through a clump instead of
// creating a zero-length programme). Because one assignment can unblock
// the predecessor of a same-start chain, the pass repeats until a full
// iteration assigns nothing. Terminates: the number of unresolved stops
// is finite and strictly decreases on every repeated pass.
//
// The last programme of a channel has no successor and never receives an
// inferred stop; that is expected, not an error.
//
// Returns the number of stops assigned.
func inferStops(recs []*rec) int {
	assigned := 0
	for {
		changed := false
		for i, r := range recs {
			if r.hasStop || i+1 >= len(recs) {
				continue
			}
			next := recs[i+1]
			switch {
			case next.start.After(r.start):
				r.stop = next.start
				r.hasStop = true
				changed = true
				assigned++
			case next.start.Equal(r.start) && next.hasStop:
				r.stop = next.stop
				r.hasStop = true
				changed = true
				assigned++
			}
		}
		if !changed {
			return assigned
		}
	}
}
