// SPDX-License-Identifier: MIT

package guide

import (
	"fmt"
	"reflect"
	"time"

	"github.com/gitpan/xmltv/internal/xmltv"
)

// rec is the engine's working view of one programme: parsed temporal
// fields next to the wire record they came from, plus the original input
// position used as the final sort tie-break.
type rec struct {
	p       *xmltv.Programme
	start   time.Time
	stop    time.Time
	hasStop bool
	clump   *xmltv.ClumpIdx
	pos     int
}

// newRec parses the temporal attributes of p. Offset-less wall-clock
// values are interpreted in loc.
func newRec(p *xmltv.Programme, pos int, loc *time.Location) (*rec, error) {
	if p.Channel == "" {
		return nil, fmt.Errorf("%w: programme %d has no channel", ErrBadRecord, pos)
	}
	if p.Start == "" {
		return nil, fmt.Errorf("%w: programme %d (channel %s) has no start", ErrBadRecord, pos, p.Channel)
	}
	start, err := xmltv.ParseTime(p.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: programme %d (channel %s): %v", ErrBadRecord, pos, p.Channel, err)
	}
	r := &rec{p: p, start: start, pos: pos}
	if p.Stop != "" {
		stop, err := xmltv.ParseTime(p.Stop, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: programme %d (channel %s): %v", ErrBadRecord, pos, p.Channel, err)
		}
		r.stop = stop
		r.hasStop = true
	}
	clump, err := xmltv.ParseClumpIdx(p.ClumpIdx)
	if err != nil {
		return nil, fmt.Errorf("%w: programme %d (channel %s): %v", ErrBadRecord, pos, p.Channel, err)
	}
	r.clump = clump
	return r, nil
}

// finalize writes the parsed temporal fields back to the wire record in
// canonical form. Everything else on the record is untouched.
func (r *rec) finalize() {
	r.p.Start = xmltv.FormatTime(r.start)
	if r.hasStop {
		r.p.Stop = xmltv.FormatTime(r.stop)
	} else {
		r.p.Stop = ""
	}
	if r.clump != nil {
		r.p.ClumpIdx = r.clump.String()
	}
}

// title returns the record's first title, for diagnostics.
func (r *rec) title() string {
	if len(r.p.Titles) == 0 {
		return ""
	}
	return r.p.Titles[0].Value
}

// ref builds the diagnostics view of the record.
func (r *rec) ref() ProgrammeRef {
	return ProgrammeRef{
		Title:   r.title(),
		Start:   r.start,
		Stop:    r.stop,
		HasStop: r.hasStop,
	}
}

// equalRecs is deep equality of every field: identical temporal values
// and identical descriptive payload.
func equalRecs(a, b *rec) bool {
	if !a.start.Equal(b.start) {
		return false
	}
	if a.hasStop != b.hasStop {
		return false
	}
	if a.hasStop && !a.stop.Equal(b.stop) {
		return false
	}
	if (a.clump == nil) != (b.clump == nil) {
		return false
	}
	if a.clump != nil && *a.clump != *b.clump {
		return false
	}
	return payloadEqual(a.p, b.p)
}

// payloadEqual compares the fields the engine never interprets. The raw
// temporal attributes are excluded: they are compared as parsed values in
// equalRecs, so formatting variants of the same instant still match.
func payloadEqual(a, b *xmltv.Programme) bool {
	ca, cb := *a, *b
	ca.Start, ca.Stop, ca.ClumpIdx = "", "", ""
	cb.Start, cb.Stop, cb.ClumpIdx = "", "", ""
	return reflect.DeepEqual(ca, cb)
}
