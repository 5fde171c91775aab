// SPDX-License-Identifier: MIT

package xmltv

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Encode writes doc to w as an indented XMLTV document with XML
// declaration and DTD reference. Output is deterministic for a given
// document, which is what makes repeated normalization byte-stable.
func Encode(w io.Writer, doc *TV) error {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal xmltv: %w", err)
	}

	header := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!DOCTYPE tv SYSTEM "xmltv.dtd">` + "\n"
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
