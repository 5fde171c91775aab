// SPDX-License-Identifier: MIT
package xmltv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func testDoc() *TV {
	return &TV{
		Generator: "tv_grab_test",
		Channels: []Channel{
			{
				ID:          "bbc1.uk",
				DisplayName: []Text{{Lang: "en", Value: "BBC One"}},
				Icons:       []Icon{{Src: "http://example.com/bbc1.png"}},
			},
		},
		Programmes: []Programme{
			{
				Start:   "20260102200000 +0000",
				Stop:    "20260102210000 +0000",
				Channel: "bbc1.uk",
				Titles:  []Text{{Lang: "en", Value: "News at Eight"}},
				Descs:   []Text{{Lang: "en", Value: "Headlines & weather."}},
				Credits: &Credits{
					Directors:  []string{"J. Doe"},
					Actors:     []Actor{{Role: "Anchor", Value: "A. Presenter"}},
					Presenters: []string{"A. Presenter"},
				},
				Categories:  []Text{{Lang: "en", Value: "news"}},
				EpisodeNums: []EpisodeNum{{System: "xmltv_ns", Value: "1.4."}},
				Ratings:     []Rating{{System: "FSK", Value: "12"}},
			},
			{
				Start:    "20260102200000 +0100",
				Channel:  "orf1.at",
				ClumpIdx: "0/2",
				Titles:   []Text{{Value: "Regionalschau"}},
				New:      &Flag{},
			},
		},
	}
}

func TestEncodeHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testDoc()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`+"\n") {
		t.Error("output missing XML declaration")
	}
	if !strings.Contains(out, `<!DOCTYPE tv SYSTEM "xmltv.dtd">`) {
		t.Error("output missing DOCTYPE")
	}
	if !strings.Contains(out, `clumpidx="0/2"`) {
		t.Error("output missing clumpidx attribute")
	}
	if !strings.Contains(out, "Headlines &amp; weather.") {
		t.Error("character data not escaped")
	}
	if !strings.HasSuffix(out, "</tv>\n") {
		t.Error("output missing trailing newline after root")
	}
	if strings.Contains(out, `stop=""`) {
		t.Error("absent stop must be omitted, not serialized empty")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := testDoc()

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if diff := cmp.Diff(doc, back, cmpopts.IgnoreFields(TV{}, "XMLName")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := Encode(&a, testDoc()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := Encode(&b, testDoc()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("repeated Encode of the same document differs")
	}
}
