// SPDX-License-Identifier: MIT

package guide

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gitpan/xmltv/internal/xmltv"
)

// compareTimes is the three-way order over optional timestamps: both
// absent are equal, an absent value sorts before any present one (an
// unknown stop is not yet constrained), present values are chronological.
func compareTimes(aKnown bool, a time.Time, bKnown bool, b time.Time) int {
	switch {
	case !aKnown && !bKnown:
		return 0
	case !aKnown:
		return -1
	case !bKnown:
		return 1
	default:
		return a.Compare(b)
	}
}

// compareClumps orders clump positions. The second result is false when
// the pair is indeterminate: exactly one side carries a clump index, or
// the two sizes disagree. Callers fall back to their conservative default
// in that case; the walk in dedupe surfaces the warning.
func compareClumps(a, b *xmltv.ClumpIdx) (int, bool) {
	switch {
	case a == nil && b == nil:
		return 0, true
	case a == nil || b == nil:
		return 0, false
	case a.Size != b.Size:
		return 0, false
	case a.Index < b.Index:
		return -1, true
	case a.Index > b.Index:
		return 1, true
	default:
		return 0, true
	}
}

// clumpIndeterminate reports whether the pair carries unusable clump
// information: one side marked, the other not, or mismatched clump sizes.
func clumpIndeterminate(a, b *xmltv.ClumpIdx) bool {
	_, ok := compareClumps(a, b)
	return !ok
}

// comparer orders records for one sort pass. withChannel adds the channel
// id as a tie-break ahead of the clump index, which the flat merge mode
// needs; inside a single channel it contributes nothing. A comparer is
// constructed per invocation and holds no state.
type comparer struct {
	withChannel bool
}

// compare is the full sort key: start, stop (absent first), optionally
// channel, then clump position. Records that tie on all keys keep their
// existing relative order; sorting is always done stably, so the final
// tie-break is the original input position.
func (c comparer) compare(a, b *rec) int {
	if r := a.start.Compare(b.start); r != 0 {
		return r
	}
	if r := compareTimes(a.hasStop, a.stop, b.hasStop, b.stop); r != 0 {
		return r
	}
	if c.withChannel {
		if r := strings.Compare(a.p.Channel, b.p.Channel); r != 0 {
			return r
		}
	}
	if r, ok := compareClumps(a.clump, b.clump); ok && r != 0 {
		return r
	}
	return 0
}

// sortRecs stably sorts recs under the comparer.
func (c comparer) sortRecs(recs []*rec) {
	sort.SliceStable(recs, func(i, j int) bool {
		return c.compare(recs[i], recs[j]) < 0
	})
}

// verifySorted checks the postcondition that adjacent records are
// non-decreasing under the comparer. A violation means the comparator
// itself is broken and the run must abort.
func (c comparer) verifySorted(recs []*rec) error {
	for i := 1; i < len(recs); i++ {
		if c.compare(recs[i-1], recs[i]) > 0 {
			return fmt.Errorf("%w: records %d and %d out of order after sort", ErrInternal, i-1, i)
		}
	}
	return nil
}
