// SPDX-License-Identifier: MIT
package guide

import (
	"testing"

	"github.com/gitpan/xmltv/internal/xmltv"
)

func TestOverlaps(t *testing.T) {
	mk := func(start, stop string, clump *xmltv.ClumpIdx) *rec {
		r := &rec{p: &xmltv.Programme{Channel: "c1"}, start: ts(t, start), clump: clump}
		if stop != "" {
			r.stop = ts(t, stop)
			r.hasStop = true
		}
		return r
	}

	tests := []struct {
		name string
		a, b *rec
		want bool
	}{
		{
			name: "both stops unknown proves nothing",
			a:    mk("20260101090000", "", nil),
			b:    mk("20260101093000", "", nil),
			want: false,
		},
		{
			name: "b starts inside a",
			a:    mk("20260101090000", "20260101100000", nil),
			b:    mk("20260101093000", "", nil),
			want: true,
		},
		{
			name: "b starts at a's stop",
			a:    mk("20260101090000", "20260101093000", nil),
			b:    mk("20260101093000", "", nil),
			want: false,
		},
		{
			name: "only b bounded, same start",
			a:    mk("20260101090000", "", nil),
			b:    mk("20260101090000", "20260101093000", nil),
			want: false,
		},
		{
			name: "back to back",
			a:    mk("20260101090000", "20260101093000", nil),
			b:    mk("20260101093000", "20260101100000", nil),
			want: false,
		},
		{
			name: "a runs into b",
			a:    mk("20260101090000", "20260101100000", nil),
			b:    mk("20260101093000", "20260101094500", nil),
			want: true,
		},
		{
			name: "identical intervals no clump",
			a:    mk("20260101090000", "20260101093000", nil),
			b:    mk("20260101090000", "20260101093000", nil),
			want: true,
		},
		{
			name: "same start distinct clump positions",
			a:    mk("20260101090000", "20260101093000", &xmltv.ClumpIdx{Index: 0, Size: 2}),
			b:    mk("20260101090000", "20260101093000", &xmltv.ClumpIdx{Index: 1, Size: 2}),
			want: false,
		},
		{
			name: "same start same clump position",
			a:    mk("20260101090000", "20260101093000", &xmltv.ClumpIdx{Index: 0, Size: 2}),
			b:    mk("20260101090000", "20260101093000", &xmltv.ClumpIdx{Index: 0, Size: 2}),
			want: true,
		},
		{
			name: "same start indeterminate clump",
			a:    mk("20260101090000", "20260101093000", &xmltv.ClumpIdx{Index: 0, Size: 2}),
			b:    mk("20260101090000", "20260101093000", nil),
			want: true,
		},
		{
			name: "same start mismatched clump sizes",
			a:    mk("20260101090000", "20260101093000", &xmltv.ClumpIdx{Index: 0, Size: 2}),
			b:    mk("20260101090000", "20260101093000", &xmltv.ClumpIdx{Index: 1, Size: 3}),
			want: true,
		},
		{
			name: "zero length never overlaps",
			a:    mk("20260101090000", "20260101090000", nil),
			b:    mk("20260101090000", "20260101093000", nil),
			want: false,
		},
		{
			name: "out of order pair still detected",
			a:    mk("20260101093000", "20260101100000", nil),
			b:    mk("20260101090000", "20260101094500", nil),
			want: true,
		},
		{
			name: "out of order pair disjoint",
			a:    mk("20260101100000", "20260101110000", nil),
			b:    mk("20260101090000", "20260101100000", nil),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
