// SPDX-License-Identifier: MIT

package channels

import (
	"regexp"
	"strings"

	unorm "golang.org/x/text/unicode/norm"
)

var (
	suffix = regexp.MustCompile(`\s+(hd|uhd|4k|sd|at|de|ch|uk)$`)
	space  = regexp.MustCompile(`\s+`)
)

// NameKey normalizes a channel name or id into its matching key:
// Unicode NFC, lowercase, trailing quality and region tokens stripped,
// whitespace collapsed. Keys are what the alias table is indexed by.
func NameKey(s string) string {
	s = unorm.NFC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	// Lowercasing can change combining sequences, normalize again.
	s = unorm.NFC.String(s)

	// Strip suffixes repeatedly so "ORF1 HD AT" reduces fully.
	for {
		before := s
		s = suffix.ReplaceAllString(s, "")
		if s == before {
			break
		}
	}

	s = space.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
