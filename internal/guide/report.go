// SPDX-License-Identifier: MIT

package guide

import (
	"time"

	"github.com/rs/zerolog"

	xlog "github.com/gitpan/xmltv/internal/log"
	"github.com/gitpan/xmltv/internal/xmltv"
)

// ProgrammeRef carries enough of a programme to locate it in the source
// data: first title and the parsed temporal bounds.
type ProgrammeRef struct {
	Title   string
	Start   time.Time
	Stop    time.Time
	HasStop bool
}

// Reporter is the diagnostics side-channel. All warnings are advisory and
// never abort processing. Channels are processed in parallel, so
// implementations must be safe for concurrent use.
type Reporter interface {
	// ClumpMismatch reports a same-start pair whose clump indices cannot
	// be compared: one side unmarked, or mismatched clump sizes.
	ClumpMismatch(channel string, a, b ProgrammeRef)
	// Overlap reports two neighbouring programmes sharing time instants.
	Overlap(channel string, a, b ProgrammeRef)
	// StartAfterStop reports a programme whose start exceeds its stop.
	StartAfterStop(channel string, p ProgrammeRef)
	// UnresolvedStop reports a programme left without a stop after
	// inference. For the last programme of a channel this is expected.
	UnresolvedStop(channel string, p ProgrammeRef)
}

// NopReporter discards all diagnostics.
type NopReporter struct{}

func (NopReporter) ClumpMismatch(string, ProgrammeRef, ProgrammeRef) {}
func (NopReporter) Overlap(string, ProgrammeRef, ProgrammeRef)       {}
func (NopReporter) StartAfterStop(string, ProgrammeRef)              {}
func (NopReporter) UnresolvedStop(string, ProgrammeRef)              {}

// LogReporter writes diagnostics as structured log events. zerolog
// loggers are safe for concurrent use.
type LogReporter struct {
	logger zerolog.Logger
}

// NewLogReporter returns a Reporter logging under the guide component.
func NewLogReporter() LogReporter {
	return LogReporter{logger: xlog.WithComponent("guide")}
}

// NewLogReporterWith returns a Reporter writing diagnostics to the given
// logger instead of the global one.
func NewLogReporterWith(logger zerolog.Logger) LogReporter {
	return LogReporter{logger: logger}
}

func (l LogReporter) ClumpMismatch(channel string, a, b ProgrammeRef) {
	l.logger.Warn().
		Str("event", "guide.clump_mismatch").
		Str(xlog.FieldChannelID, channel).
		Str("a_title", a.Title).
		Str("b_title", b.Title).
		Str(xlog.FieldStart, xmltv.FormatTime(a.Start)).
		Msg("cannot compare clump indices of simultaneous programmes")
}

func (l LogReporter) Overlap(channel string, a, b ProgrammeRef) {
	ev := l.logger.Warn().
		Str("event", "guide.overlap").
		Str(xlog.FieldChannelID, channel).
		Str("a_title", a.Title).
		Str("a_start", xmltv.FormatTime(a.Start)).
		Str("b_title", b.Title).
		Str("b_start", xmltv.FormatTime(b.Start))
	if a.HasStop {
		ev = ev.Str("a_stop", xmltv.FormatTime(a.Stop))
	}
	if b.HasStop {
		ev = ev.Str("b_stop", xmltv.FormatTime(b.Stop))
	}
	ev.Msg("overlapping programmes")
}

func (l LogReporter) StartAfterStop(channel string, p ProgrammeRef) {
	l.logger.Warn().
		Str("event", "guide.start_after_stop").
		Str(xlog.FieldChannelID, channel).
		Str("title", p.Title).
		Str(xlog.FieldStart, xmltv.FormatTime(p.Start)).
		Str(xlog.FieldStop, xmltv.FormatTime(p.Stop)).
		Msg("programme starts after its stop")
}

func (l LogReporter) UnresolvedStop(channel string, p ProgrammeRef) {
	l.logger.Debug().
		Str("event", "guide.unresolved_stop").
		Str(xlog.FieldChannelID, channel).
		Str("title", p.Title).
		Str(xlog.FieldStart, xmltv.FormatTime(p.Start)).
		Msg("no stop time could be inferred")
}

// Report summarizes one normalization run.
type Report struct {
	Channels        int `json:"channels"`
	ProgrammesIn    int `json:"programmes_in"`
	ProgrammesOut   int `json:"programmes_out"`
	Duplicates      int `json:"duplicates"`
	StopsInferred   int `json:"stops_inferred"`
	Overlaps        int `json:"overlaps"`
	Warnings        int `json:"warnings"`
	UnresolvedStops int `json:"unresolved_stops"`
}

func (rep *Report) add(st channelStats) {
	rep.Duplicates += st.duplicates
	rep.StopsInferred += st.inferred
	rep.Overlaps += st.overlaps
	rep.Warnings += st.warnings
	rep.UnresolvedStops += st.unresolved
}
