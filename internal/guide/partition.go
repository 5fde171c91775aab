// SPDX-License-Identifier: MIT

package guide

import "sort"

// partition groups records by channel id, preserving the original input
// order inside each channel. The returned ids are in first-seen order.
func partition(recs []*rec) (map[string][]*rec, []string) {
	byChannel := make(map[string][]*rec)
	var ids []string
	for _, r := range recs {
		ch := r.p.Channel
		if _, ok := byChannel[ch]; !ok {
			ids = append(ids, ch)
		}
		byChannel[ch] = append(byChannel[ch], r)
	}
	return byChannel, ids
}

// mergeByChannel concatenates the processed channels in channel-id
// lexicographic order, keeping each channel's internal order.
func mergeByChannel(processed map[string][]*rec) []*rec {
	ids := make([]string, 0, len(processed))
	for ch := range processed {
		ids = append(ids, ch)
	}
	sort.Strings(ids)

	var out []*rec
	for _, ch := range ids {
		out = append(out, processed[ch]...)
	}
	return out
}

// mergeFlat re-sorts the concatenation of all channels into one global
// time order, with the channel id joining the key as a tie-break. The
// per-channel order feeds the stable sort, so within-channel ties keep
// their established order.
func mergeFlat(processed map[string][]*rec, ids []string) ([]*rec, error) {
	var out []*rec
	for _, ch := range ids {
		out = append(out, processed[ch]...)
	}
	c := comparer{withChannel: true}
	c.sortRecs(out)
	if err := c.verifySorted(out); err != nil {
		return nil, err
	}
	return out, nil
}
