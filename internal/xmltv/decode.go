// SPDX-License-Identifier: MIT

package xmltv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/ianaindex"
)

// maxDocSize bounds decoded input to prevent DoS via massive files.
// Multi-day full-lineup guides run to tens of megabytes; 250MB leaves
// generous headroom.
const maxDocSize = 250 * 1024 * 1024

// Decode reads one XMLTV document from r. Parsing is strict, entity
// expansion is disabled to prevent XXE attacks, and input is size-capped.
func Decode(r io.Reader) (*TV, error) {
	dec := xml.NewDecoder(io.LimitReader(r, maxDocSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)
	dec.CharsetReader = charsetReader

	var doc TV
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode xmltv: %w", err)
	}
	return &doc, nil
}

// ReadFile decodes the XMLTV document at path.
func ReadFile(path string) (*TV, error) {
	path = filepath.Clean(path)
	// path is cleaned and originates from controlled configuration
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// charsetReader decodes the legacy single-byte encodings still common in
// scraped listings (ISO-8859-1 and friends).
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
