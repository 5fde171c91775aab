// SPDX-License-Identifier: MIT

package xmltv

// Concat combines several documents into one. The first document's header
// attributes win; channels are deduplicated by id (first definition wins)
// and programmes are appended in argument order.
func Concat(docs ...*TV) *TV {
	out := &TV{}
	headerSet := false
	seen := make(map[string]bool)
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if !headerSet {
			out.Date = doc.Date
			out.SourceInfoURL = doc.SourceInfoURL
			out.SourceInfoName = doc.SourceInfoName
			out.SourceDataURL = doc.SourceDataURL
			out.Generator = doc.Generator
			out.GeneratorURL = doc.GeneratorURL
			headerSet = true
		}
		for _, ch := range doc.Channels {
			if ch.ID != "" {
				if seen[ch.ID] {
					continue
				}
				seen[ch.ID] = true
			}
			out.Channels = append(out.Channels, ch)
		}
		out.Programmes = append(out.Programmes, doc.Programmes...)
	}
	return out
}
