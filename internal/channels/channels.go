// SPDX-License-Identifier: MIT

// Package channels unifies variant channel identifiers across scraped
// guide fragments. Different sources name the same station differently
// ("BBC One", "BBC 1 HD", "bbc1"); an alias table maps those variants
// onto one canonical id before the schedule engine runs. Matching is
// key-normalized and optionally fuzzy, bounded by an edit distance.
package channels

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gitpan/xmltv/internal/xmltv"
)

// Table is the on-disk alias configuration: canonical channel id to the
// name variants that should resolve to it. MaxDistance zero means exact
// key matches only; a positive value allows fuzzy lookups within that
// many edit operations.
type Table struct {
	Aliases     map[string][]string `yaml:"aliases"`
	MaxDistance int                 `yaml:"max_distance"`
}

// LoadTable reads a YAML alias table. Unknown fields are rejected; an
// empty file yields an empty table.
func LoadTable(path string) (Table, error) {
	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean) // #nosec G304 -- operator-provided path
	if err != nil {
		return Table{}, fmt.Errorf("read alias table: %w", err)
	}

	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, nil
		}
		return Table{}, fmt.Errorf("parse alias table %s: %w", clean, err)
	}
	if t.MaxDistance < 0 {
		return Table{}, fmt.Errorf("alias table %s: max_distance must not be negative", clean)
	}
	return t, nil
}

// Resolver answers "which canonical id does this name belong to".
type Resolver struct {
	byKey   map[string]string
	maxDist int
}

// NewResolver indexes the table. Every canonical id resolves to itself,
// so fragments already using canonical ids are never rewritten by a
// fuzzy match. Two entries normalizing to the same key but claiming
// different canonical ids are a configuration error.
func NewResolver(t Table) (*Resolver, error) {
	if t.MaxDistance < 0 {
		return nil, fmt.Errorf("max_distance must not be negative")
	}
	byKey := make(map[string]string)

	add := func(name, id string) error {
		key := NameKey(name)
		if key == "" {
			return nil
		}
		if prev, ok := byKey[key]; ok && prev != id {
			return fmt.Errorf("alias %q maps to both %q and %q", name, prev, id)
		}
		byKey[key] = id
		return nil
	}

	for id := range t.Aliases {
		if err := add(id, id); err != nil {
			return nil, err
		}
	}
	for id, names := range t.Aliases {
		for _, name := range names {
			if err := add(name, id); err != nil {
				return nil, err
			}
		}
	}
	return &Resolver{byKey: byKey, maxDist: t.MaxDistance}, nil
}

// Resolve maps a channel name or id to its canonical id: exact key
// match first, then a distance-bounded fuzzy scan if the table allows
// one. The second result is false when nothing matched.
func (r *Resolver) Resolve(name string) (string, bool) {
	key := NameKey(name)
	if key == "" {
		return "", false
	}
	if id, ok := r.byKey[key]; ok {
		return id, true
	}
	if r.maxDist > 0 {
		return bestMatch(key, r.byKey, r.maxDist)
	}
	return "", false
}

// Apply rewrites doc in place: channel ids and programme channel
// references that resolve through the table are replaced with their
// canonical id, and channel entries that collapse onto an already-seen
// id are dropped (first occurrence wins). Unmatched ids pass through
// untouched. Returns the number of rewritten references.
func (r *Resolver) Apply(doc *xmltv.TV) int {
	if doc == nil {
		return 0
	}
	rewritten := 0

	kept := doc.Channels[:0]
	seen := make(map[string]bool, len(doc.Channels))
	for _, ch := range doc.Channels {
		if id, ok := r.Resolve(ch.ID); ok && id != ch.ID {
			ch.ID = id
			rewritten++
		}
		if ch.ID != "" {
			if seen[ch.ID] {
				continue
			}
			seen[ch.ID] = true
		}
		kept = append(kept, ch)
	}
	doc.Channels = kept

	for i := range doc.Programmes {
		p := &doc.Programmes[i]
		if id, ok := r.Resolve(p.Channel); ok && id != p.Channel {
			p.Channel = id
			rewritten++
		}
	}
	return rewritten
}
