// SPDX-License-Identifier: MIT

// Package guide normalizes TV schedules: it sorts programmes into a
// canonical order, infers missing stop times from neighbouring entries,
// collapses exact duplicates and reports temporal overlaps. The
// transformation is idempotent: feeding its own output back in
// reproduces it byte for byte.
package guide

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gitpan/xmltv/internal/xmltv"
)

// Options configures one normalization run. Only ByChannel affects what
// the output contains and how it is ordered; everything else is
// interpretation context, parallelism or diagnostics plumbing.
type Options struct {
	// ByChannel groups the output by channel id (lexicographic) instead
	// of the default single global time order.
	ByChannel bool

	// Location interprets offset-less wall-clock timestamps. Nil means
	// UTC.
	Location *time.Location

	// Workers bounds per-channel parallelism. Zero or negative means
	// GOMAXPROCS.
	Workers int

	// Reporter receives data-quality diagnostics. Nil means logging.
	Reporter Reporter
}

// Normalize transforms doc into canonical order. The document header and
// channel list pass through unchanged; programmes come back sorted,
// stop-filled where inferable, deduplicated, and with overlap reported
// through the Reporter. The input document is not modified.
//
// Errors are either input-contract violations (ErrBadRecord) or engine
// bugs caught by the ordering postcondition (ErrInternal); data-quality
// findings never fail the run.
func Normalize(doc *xmltv.TV, opts Options) (*xmltv.TV, *Report, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("%w: nil document", ErrBadRecord)
	}
	rep := opts.Reporter
	if rep == nil {
		rep = NewLogReporter()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Work on value copies so the caller's document stays untouched; the
	// engine rewrites temporal attributes in place on the copies.
	progs := make([]xmltv.Programme, len(doc.Programmes))
	copy(progs, doc.Programmes)

	recs := make([]*rec, 0, len(progs))
	for i := range progs {
		r, err := newRec(&progs[i], i, loc)
		if err != nil {
			return nil, nil, err
		}
		recs = append(recs, r)
	}

	byChannel, ids := partition(recs)

	// Channels share no state; fan out and join before merging.
	processed := make([][]*rec, len(ids))
	stats := make([]channelStats, len(ids))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, ch := range ids {
		g.Go(func() error {
			out, err := processChannel(ch, byChannel[ch], rep, &stats[i])
			if err != nil {
				return err
			}
			processed[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	report := &Report{
		Channels:     len(ids),
		ProgrammesIn: len(doc.Programmes),
	}
	done := make(map[string][]*rec, len(ids))
	for i, ch := range ids {
		done[ch] = processed[i]
		report.add(stats[i])
	}

	var merged []*rec
	if opts.ByChannel {
		merged = mergeByChannel(done)
	} else {
		var err error
		merged, err = mergeFlat(done, ids)
		if err != nil {
			return nil, nil, err
		}
	}
	report.ProgrammesOut = len(merged)

	out := *doc
	out.Programmes = make([]xmltv.Programme, 0, len(merged))
	for _, r := range merged {
		r.finalize()
		out.Programmes = append(out.Programmes, *r.p)
	}
	return &out, report, nil
}

// processChannel runs the per-channel pipeline: sort, infer stops,
// re-sort (stop times are part of the key), dedupe and check overlap,
// then report what stayed unresolved. Each stage re-verifies the
// ordering postcondition rather than assuming it.
func processChannel(channel string, recs []*rec, rep Reporter, stats *channelStats) ([]*rec, error) {
	c := comparer{}
	c.sortRecs(recs)
	if err := c.verifySorted(recs); err != nil {
		return nil, fmt.Errorf("channel %s: %w", channel, err)
	}

	stats.inferred = inferStops(recs)

	c.sortRecs(recs)
	if err := c.verifySorted(recs); err != nil {
		return nil, fmt.Errorf("channel %s: %w", channel, err)
	}

	out := dedupe(channel, recs, rep, stats)

	for _, r := range out {
		if !r.hasStop {
			rep.UnresolvedStop(channel, r.ref())
			stats.unresolved++
		}
	}
	return out, nil
}
