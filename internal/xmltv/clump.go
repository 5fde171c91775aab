// SPDX-License-Identifier: MIT

package xmltv

import (
	"fmt"
	"strconv"
	"strings"
)

// ClumpIdx locates a programme within a clump: a set of entries sharing
// identical start and stop times that represent simultaneous sub-events
// (regional variants, split broadcasts).
type ClumpIdx struct {
	Index int // zero-based position within the clump
	Size  int
}

// ParseClumpIdx parses the wire form "index/size". The empty string means
// the programme is not part of a clump and yields a nil pointer.
func ParseClumpIdx(s string) (*ClumpIdx, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	idxStr, sizeStr, ok := strings.Cut(s, "/")
	if !ok {
		return nil, fmt.Errorf("parse clumpidx %q: missing '/'", s)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
	if err != nil {
		return nil, fmt.Errorf("parse clumpidx %q: %w", s, err)
	}
	size, err := strconv.Atoi(strings.TrimSpace(sizeStr))
	if err != nil {
		return nil, fmt.Errorf("parse clumpidx %q: %w", s, err)
	}
	if size <= 0 || idx < 0 || idx >= size {
		return nil, fmt.Errorf("parse clumpidx %q: index out of range", s)
	}
	return &ClumpIdx{Index: idx, Size: size}, nil
}

// String renders the wire form "index/size".
func (c ClumpIdx) String() string {
	return strconv.Itoa(c.Index) + "/" + strconv.Itoa(c.Size)
}
