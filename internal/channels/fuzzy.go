// SPDX-License-Identifier: MIT

package channels

// bestMatch scans keys for the entry closest to key within maxDist edit
// operations. Ties are broken by the lexicographically smaller key so a
// lookup never depends on map iteration order.
func bestMatch(key string, keys map[string]string, maxDist int) (string, bool) {
	best := maxDist + 1
	var id, match string

	for k, v := range keys {
		d := levenshtein(key, k)
		if d > best {
			continue
		}
		if d == best && match != "" && k >= match {
			continue
		}
		best, match, id = d, k, v
	}

	if best > maxDist {
		return "", false
	}
	return id, true
}

// levenshtein computes the edit distance between a and b in runes,
// keeping two rolling rows instead of the full matrix.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ca := range ar {
		curr[0] = i + 1
		for j, cb := range br {
			ins := curr[j] + 1
			del := prev[j+1] + 1
			sub := prev[j]
			if ca != cb {
				sub++
			}
			curr[j+1] = min(ins, del, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}
