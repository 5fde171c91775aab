// SPDX-License-Identifier: MIT

package guide

// overlaps reports whether two records in sort order (a before b) share
// any time instant. It is conservative: when neither stop is known,
// nothing is provable and the answer is no. Same-start pairs occupying
// distinct, valid positions in the same clump are exempt; absent or
// indeterminate clump information keeps the pair overlapping.
func overlaps(a, b *rec) bool {
	// At most one bound known.
	switch {
	case !a.hasStop && !b.hasStop:
		return false
	case !b.hasStop:
		return b.start.After(a.start) && b.start.Before(a.stop)
	case !a.hasStop:
		return a.start.After(b.start) && a.start.Before(b.stop)
	}

	// Both stops known: case analysis on the starts.
	switch {
	case a.start.Before(b.start):
		return a.stop.After(b.start)
	case a.start.Equal(b.start):
		if a.start.Equal(a.stop) || b.start.Equal(b.stop) {
			// Zero-length programmes occupy no interval.
			return false
		}
		if r, ok := compareClumps(a.clump, b.clump); ok && r != 0 {
			return false
		}
		return true
	default:
		// a starting after b: they share time iff a starts inside b.
		return a.start.Before(b.stop)
	}
}
