// SPDX-License-Identifier: MIT
package guide

import (
	"testing"

	"github.com/gitpan/xmltv/internal/xmltv"
)

func mkTitled(t *testing.T, start, stop, title string, pos int) *rec {
	t.Helper()
	r := mkRec(t, start, stop, pos)
	r.p.Titles = []xmltv.Text{{Value: title}}
	return r
}

func TestDedupeDropsExactDuplicates(t *testing.T) {
	a := mkTitled(t, "20260101090000", "20260101093000", "A", 0)
	b := mkTitled(t, "20260101090000", "20260101093000", "A", 1)

	rep := &recordingReporter{}
	var stats channelStats
	out := dedupe("c1", []*rec{a, b}, rep, &stats)

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0] != a {
		t.Error("the second occurrence must be the one dropped")
	}
	if stats.duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", stats.duplicates)
	}
	if len(rep.overlap) != 0 || len(rep.clumpMismatch) != 0 {
		t.Error("exact duplicates must not produce diagnostics")
	}
}

func TestDedupeDuplicateFormatVariants(t *testing.T) {
	// Same instant spelled differently is still the same record.
	a := mkTitled(t, "20260101090000 +0000", "20260101093000 +0000", "A", 0)
	b := mkTitled(t, "20260101100000 +0100", "20260101103000 +0100", "A", 1)

	rep := &recordingReporter{}
	var stats channelStats
	out := dedupe("c1", []*rec{a, b}, rep, &stats)

	if len(out) != 1 || stats.duplicates != 1 {
		t.Errorf("len(out) = %d, duplicates = %d; want 1, 1", len(out), stats.duplicates)
	}
}

func TestDedupeKeepsPayloadVariants(t *testing.T) {
	// Identical times, different payload: not a duplicate, but an
	// overlap to report.
	a := mkTitled(t, "20260101090000", "20260101093000", "A", 0)
	b := mkTitled(t, "20260101090000", "20260101093000", "B", 1)

	rep := &recordingReporter{}
	var stats channelStats
	out := dedupe("c1", []*rec{a, b}, rep, &stats)

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if stats.duplicates != 0 {
		t.Errorf("duplicates = %d, want 0", stats.duplicates)
	}
	if len(rep.overlap) != 1 {
		t.Fatalf("overlap reports = %d, want 1", len(rep.overlap))
	}
	if rep.overlap[0] != [2]string{"A", "B"} {
		t.Errorf("overlap pair = %v, want [A B]", rep.overlap[0])
	}
}

func TestDedupeStartAfterStopWarnsAndContinues(t *testing.T) {
	a := mkTitled(t, "20260101093000", "20260101090000", "backwards", 0)
	b := mkTitled(t, "20260101100000", "20260101103000", "fine", 1)

	rep := &recordingReporter{}
	var stats channelStats
	out := dedupe("c1", []*rec{a, b}, rep, &stats)

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2: the warning must not drop records", len(out))
	}
	if len(rep.startAfterStop) != 1 || rep.startAfterStop[0] != "backwards" {
		t.Errorf("startAfterStop reports = %v", rep.startAfterStop)
	}
	if stats.warnings != 1 {
		t.Errorf("warnings = %d, want 1", stats.warnings)
	}
}

func TestDedupeClumpMismatchWarnsOncePerPair(t *testing.T) {
	a := mkTitled(t, "20260101090000", "20260101093000", "A", 0)
	a.clump = &xmltv.ClumpIdx{Index: 0, Size: 2}
	b := mkTitled(t, "20260101090000", "20260101093000", "B", 1)

	rep := &recordingReporter{}
	var stats channelStats
	dedupe("c1", []*rec{a, b}, rep, &stats)

	if len(rep.clumpMismatch) != 1 {
		t.Errorf("clumpMismatch reports = %d, want exactly 1", len(rep.clumpMismatch))
	}
	// The indeterminate pair stays conservative: still an overlap.
	if len(rep.overlap) != 1 {
		t.Errorf("overlap reports = %d, want 1", len(rep.overlap))
	}
}

func TestDedupeValidClumpNoWarnings(t *testing.T) {
	a := mkTitled(t, "20260101090000", "20260101093000", "A", 0)
	a.clump = &xmltv.ClumpIdx{Index: 0, Size: 2}
	b := mkTitled(t, "20260101090000", "20260101093000", "B", 1)
	b.clump = &xmltv.ClumpIdx{Index: 1, Size: 2}

	rep := &recordingReporter{}
	var stats channelStats
	out := dedupe("c1", []*rec{a, b}, rep, &stats)

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if len(rep.clumpMismatch) != 0 || len(rep.overlap) != 0 {
		t.Errorf("valid clump pair produced diagnostics: mismatch=%d overlap=%d",
			len(rep.clumpMismatch), len(rep.overlap))
	}
}

func TestDedupeDifferentStartsNoClumpWarning(t *testing.T) {
	// A marked programme next to an unrelated unmarked one is normal;
	// clump indices only matter between simultaneous entries.
	a := mkTitled(t, "20260101090000", "20260101093000", "A", 0)
	a.clump = &xmltv.ClumpIdx{Index: 0, Size: 2}
	b := mkTitled(t, "20260101093000", "20260101100000", "B", 1)

	rep := &recordingReporter{}
	var stats channelStats
	dedupe("c1", []*rec{a, b}, rep, &stats)

	if len(rep.clumpMismatch) != 0 {
		t.Errorf("clumpMismatch reports = %d, want 0 for different starts", len(rep.clumpMismatch))
	}
}
