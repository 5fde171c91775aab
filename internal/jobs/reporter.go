// SPDX-License-Identifier: MIT

package jobs

import (
	"github.com/gitpan/xmltv/internal/guide"
	"github.com/gitpan/xmltv/internal/metrics"
)

// metricsReporter counts each diagnostic before handing it to the next
// reporter, so warning metrics stay in sync with the logged events.
type metricsReporter struct {
	next guide.Reporter
}

func (r metricsReporter) ClumpMismatch(channel string, a, b guide.ProgrammeRef) {
	metrics.IncWarning(metrics.WarnClumpMismatch)
	if r.next != nil {
		r.next.ClumpMismatch(channel, a, b)
	}
}

func (r metricsReporter) Overlap(channel string, a, b guide.ProgrammeRef) {
	metrics.IncWarning(metrics.WarnOverlap)
	if r.next != nil {
		r.next.Overlap(channel, a, b)
	}
}

func (r metricsReporter) StartAfterStop(channel string, p guide.ProgrammeRef) {
	metrics.IncWarning(metrics.WarnStartAfterStop)
	if r.next != nil {
		r.next.StartAfterStop(channel, p)
	}
}

func (r metricsReporter) UnresolvedStop(channel string, p guide.ProgrammeRef) {
	metrics.IncWarning(metrics.WarnUnresolvedStop)
	if r.next != nil {
		r.next.UnresolvedStop(channel, p)
	}
}
