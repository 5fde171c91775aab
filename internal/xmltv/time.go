// SPDX-License-Identifier: MIT

package xmltv

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the canonical XMLTV timestamp form. Normalized documents
// always carry start/stop in this form.
const TimeLayout = "20060102150405 -0700"

// FormatTime renders t in the canonical XMLTV form.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses an XMLTV timestamp: YYYYMMDDHHMMSS truncated at any
// component boundary, optionally followed by a UTC offset. Values without
// an offset are interpreted as wall-clock time in loc (UTC when nil).
// A wall-clock value falling in a daylight-saving gap resolves to
// standard time rather than failing.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("parse xmltv time: empty value")
	}

	digits := s
	rest := ""
	for i, r := range s {
		if r < '0' || r > '9' {
			digits, rest = s[:i], strings.TrimSpace(s[i:])
			break
		}
	}

	switch len(digits) {
	case 4, 6, 8, 10, 12, 14:
	default:
		return time.Time{}, fmt.Errorf("parse xmltv time %q: truncated at invalid boundary", value)
	}

	year := atoiField(digits, 0, 4)
	month, day := 1, 1
	var hh, mm, ss int
	if len(digits) >= 6 {
		month = atoiField(digits, 4, 6)
	}
	if len(digits) >= 8 {
		day = atoiField(digits, 6, 8)
	}
	if len(digits) >= 10 {
		hh = atoiField(digits, 8, 10)
	}
	if len(digits) >= 12 {
		mm = atoiField(digits, 10, 12)
	}
	if len(digits) == 14 {
		ss = atoiField(digits, 12, 14)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hh > 23 || mm > 59 || ss > 59 {
		return time.Time{}, fmt.Errorf("parse xmltv time %q: component out of range", value)
	}
	// Reject nonexistent calendar dates (Feb 30 and friends) before any
	// zone handling; UTC has no gaps, so normalization there means the
	// date itself is bad.
	if d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC); d.Year() != year ||
		d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("parse xmltv time %q: no such calendar date", value)
	}

	if rest != "" {
		off, err := parseOffset(rest)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse xmltv time %q: %w", value, err)
		}
		return time.Date(year, time.Month(month), day, hh, mm, ss, 0, off), nil
	}

	if loc == nil {
		loc = time.UTC
	}
	t := time.Date(year, time.Month(month), day, hh, mm, ss, 0, loc)
	if t.Year() == year && t.Month() == time.Month(month) && t.Day() == day &&
		t.Hour() == hh && t.Minute() == mm && t.Second() == ss {
		return t, nil
	}
	// The wall clock does not exist in loc: a spring-forward gap swallowed
	// it. Resolve against the standard (winter) offset on either side of
	// the transition, the smaller of the two.
	name1, off1 := t.Add(-24 * time.Hour).Zone()
	name2, off2 := t.Add(24 * time.Hour).Zone()
	name, off := name1, off1
	if off2 < off {
		name, off = name2, off2
	}
	return time.Date(year, time.Month(month), day, hh, mm, ss, 0, time.FixedZone(name, off)), nil
}

// atoiField converts a pre-validated digit substring. digits[from:to] is
// known to be numeric by the time this runs.
func atoiField(digits string, from, to int) int {
	n, _ := strconv.Atoi(digits[from:to])
	return n
}

func parseOffset(s string) (*time.Location, error) {
	switch s {
	case "UTC", "GMT", "Z":
		return time.UTC, nil
	}
	if len(s) != 5 || (s[0] != '+' && s[0] != '-') {
		return nil, fmt.Errorf("malformed offset %q", s)
	}
	hh, err := strconv.Atoi(s[1:3])
	if err != nil {
		return nil, fmt.Errorf("malformed offset %q", s)
	}
	mm, err := strconv.Atoi(s[3:5])
	if err != nil {
		return nil, fmt.Errorf("malformed offset %q", s)
	}
	if hh > 14 || mm > 59 {
		return nil, fmt.Errorf("offset %q out of range", s)
	}
	sec := hh*3600 + mm*60
	if s[0] == '-' {
		sec = -sec
	}
	return time.FixedZone(s, sec), nil
}
