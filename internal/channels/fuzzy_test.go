// SPDX-License-Identifier: MIT
package channels

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"müller", "muller", 1},
	}

	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBestMatch(t *testing.T) {
	keys := map[string]string{
		"bbc one": "bbc1.uk",
		"bbc two": "bbc2.uk",
		"zdf":     "zdf.de",
	}

	tests := []struct {
		name    string
		key     string
		maxDist int
		wantID  string
		wantOK  bool
	}{
		{"close hit", "bc one", 1, "bbc1.uk", true},
		{"exact key", "zdf", 2, "zdf.de", true},
		{"beyond distance", "cnn", 2, "", false},
		{"distance boundary", "zdff", 1, "zdf.de", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := bestMatch(tt.key, keys, tt.maxDist)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("bestMatch(%q, %d) = (%q, %v), want (%q, %v)",
					tt.key, tt.maxDist, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestBestMatchTieDeterministic(t *testing.T) {
	keys := map[string]string{
		"aa": "id-a",
		"ab": "id-b",
	}

	// "ac" is one edit from both entries; the smaller key must win
	// every time, regardless of map iteration order.
	for i := 0; i < 20; i++ {
		id, ok := bestMatch("ac", keys, 1)
		if !ok || id != "id-a" {
			t.Fatalf("run %d: bestMatch = (%q, %v), want stable (id-a, true)", i, id, ok)
		}
	}
}
