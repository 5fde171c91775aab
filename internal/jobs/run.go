// SPDX-License-Identifier: MIT

// Package jobs runs the normalize pipeline: read and decode the input
// documents, concatenate, resolve channel aliases, normalize, and
// atomically replace the output file. Each stage logs a structured
// event; failures are wrapped with their stage.
package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/gitpan/xmltv/internal/channels"
	"github.com/gitpan/xmltv/internal/guide"
	"github.com/gitpan/xmltv/internal/history"
	xlog "github.com/gitpan/xmltv/internal/log"
	"github.com/gitpan/xmltv/internal/metrics"
	"github.com/gitpan/xmltv/internal/telemetry"
	"github.com/gitpan/xmltv/internal/xmltv"
)

// Config holds everything one normalize run needs.
type Config struct {
	// Inputs are XMLTV files or glob patterns.
	Inputs []string

	// Output is the path the normalized document is written to.
	Output string

	// ByChannel groups output by channel id instead of global order.
	ByChannel bool

	// Location is the IANA zone name for offset-less timestamps.
	// Empty means UTC.
	Location string

	// Workers bounds per-channel parallelism, 0 = GOMAXPROCS.
	Workers int

	// AliasFile is an optional channel alias table.
	AliasFile string

	// Trigger names what started the run (startup, api, watcher, cli).
	Trigger string
}

// Status is the outcome of the most recent run.
type Status struct {
	LastRun       time.Time     `json:"last_run"`
	Duration      time.Duration `json:"-"`
	DurationMS    int64         `json:"duration_ms"`
	Inputs        []string      `json:"inputs"`
	Output        string        `json:"output"`
	OutputBytes   int64         `json:"output_bytes"`
	Report        *guide.Report `json:"report,omitempty"`
	AliasRewrites int           `json:"alias_rewrites,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// Runner executes normalize runs and records them in the optional run
// history store (nil disables history).
type Runner struct {
	store *history.Store
}

// NewRunner returns a Runner writing history to store. A nil store is
// valid.
func NewRunner(store *history.Store) *Runner {
	return &Runner{store: store}
}

// Normalize runs the full pipeline once with no history store.
func Normalize(ctx context.Context, cfg Config) (*Status, error) {
	return NewRunner(nil).Normalize(ctx, cfg)
}

// Normalize runs the full pipeline once. Data-quality findings are
// logged and counted but never fail the run; decode errors, input
// contract violations and write failures do.
func (r *Runner) Normalize(ctx context.Context, cfg Config) (*Status, error) {
	runID := uuid.NewString()
	ctx = xlog.ContextWithRunID(ctx, runID)
	logger := xlog.WithComponentFromContext(ctx, "jobs")
	started := time.Now()

	ctx, span := telemetry.Tracer("jobs").Start(ctx, "normalize",
		trace.WithAttributes(telemetry.RunAttributes(runID, cfg.Trigger)...))
	defer span.End()

	logger.Info().
		Str("event", "normalize.start").
		Strs(xlog.FieldInput, cfg.Inputs).
		Str(xlog.FieldOutput, cfg.Output).
		Str("trigger", cfg.Trigger).
		Msg("starting normalize run")

	status, err := r.run(ctx, cfg, started, logger)
	duration := time.Since(started)

	if err != nil {
		r.recordRun(ctx, cfg, started, duration, nil, 0, err)
		return nil, err
	}

	metrics.RecordRunCounts(status.Report.Channels, status.Report.ProgrammesIn, status.Report.ProgrammesOut)
	metrics.AddDuplicates(status.Report.Duplicates)
	metrics.AddStopsInferred(status.Report.StopsInferred)
	metrics.RecordRunSuccess(duration)
	metrics.RecordOutputSize(status.OutputBytes)
	span.SetAttributes(telemetry.ScheduleAttributes(
		status.Report.Channels,
		status.Report.ProgrammesIn,
		status.Report.ProgrammesOut,
		status.Report.Duplicates,
		status.Report.StopsInferred,
		status.Report.Warnings,
	)...)

	r.recordRun(ctx, cfg, started, duration, status.Report, status.OutputBytes, nil)

	logger.Info().
		Str("event", "normalize.success").
		Int(xlog.FieldChannels, status.Report.Channels).
		Int(xlog.FieldProgrammes, status.Report.ProgrammesOut).
		Int("duplicates", status.Report.Duplicates).
		Int("stops_inferred", status.Report.StopsInferred).
		Int(xlog.FieldWarnings, status.Report.Warnings).
		Dur("duration", duration).
		Msg("normalize run complete")

	status.Duration = duration
	status.DurationMS = duration.Milliseconds()
	return status, nil
}

func (r *Runner) run(ctx context.Context, cfg Config, started time.Time, logger zerolog.Logger) (*Status, error) {
	if err := validateConfig(cfg); err != nil {
		metrics.IncRunFailure("config")
		return nil, err
	}

	loc := time.UTC
	if cfg.Location != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Location); err != nil {
			metrics.IncRunFailure("config")
			return nil, fmt.Errorf("config: location %q: %w", cfg.Location, err)
		}
	}

	files, err := expandInputs(cfg.Inputs)
	if err != nil {
		metrics.IncRunFailure("read")
		return nil, err
	}

	docs := make([]*xmltv.TV, 0, len(files))
	for _, file := range files {
		doc, err := xmltv.ReadFile(file)
		if err != nil {
			metrics.IncRunFailure("decode")
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
		docs = append(docs, doc)
	}
	merged := xmltv.Concat(docs...)
	logger.Info().
		Str("event", "normalize.read").
		Int("files", len(files)).
		Int(xlog.FieldProgrammes, len(merged.Programmes)).
		Msg("inputs decoded")

	aliasRewrites := 0
	if cfg.AliasFile != "" {
		table, err := channels.LoadTable(cfg.AliasFile)
		if err != nil {
			metrics.IncRunFailure("alias")
			return nil, fmt.Errorf("alias: %w", err)
		}
		resolver, err := channels.NewResolver(table)
		if err != nil {
			metrics.IncRunFailure("alias")
			return nil, fmt.Errorf("alias: %w", err)
		}
		aliasRewrites = resolver.Apply(merged)
		logger.Info().
			Str("event", "normalize.alias").
			Int("rewritten", aliasRewrites).
			Msg("channel aliases applied")
	}

	out, rep, err := guide.Normalize(merged, guide.Options{
		ByChannel: cfg.ByChannel,
		Location:  loc,
		Workers:   cfg.Workers,
		Reporter:  metricsReporter{next: guide.NewLogReporter()},
	})
	if err != nil {
		metrics.IncRunFailure("normalize")
		return nil, fmt.Errorf("normalize: %w", err)
	}

	size, err := writeGuide(ctx, cfg.Output, out)
	if err != nil {
		metrics.IncRunFailure("write")
		return nil, fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	logger.Info().
		Str("event", "normalize.write").
		Str(xlog.FieldPath, cfg.Output).
		Int64("bytes", size).
		Msg("output written")

	return &Status{
		LastRun:       started,
		Inputs:        files,
		Output:        cfg.Output,
		OutputBytes:   size,
		Report:        rep,
		AliasRewrites: aliasRewrites,
	}, nil
}

// historyKeep bounds the run history table; older rows are pruned
// after every recorded run.
const historyKeep = 200

// recordRun writes the run history row. History is advisory: failures
// are logged, never propagated.
func (r *Runner) recordRun(ctx context.Context, cfg Config, started time.Time, duration time.Duration, rep *guide.Report, outputBytes int64, runErr error) {
	run := history.Run{
		StartedAt:   started,
		Duration:    duration,
		Trigger:     cfg.Trigger,
		Outcome:     "success",
		OutputBytes: outputBytes,
	}
	if rep != nil {
		run.Channels = rep.Channels
		run.ProgrammesIn = rep.ProgrammesIn
		run.ProgrammesOut = rep.ProgrammesOut
		run.Duplicates = rep.Duplicates
		run.StopsInferred = rep.StopsInferred
		run.Overlaps = rep.Overlaps
		run.Warnings = rep.Warnings
		run.UnresolvedStops = rep.UnresolvedStops
	}
	if runErr != nil {
		run.Outcome = "failure"
		run.Error = runErr.Error()
	}
	if _, err := r.store.Record(ctx, run); err != nil {
		xlog.WithComponentFromContext(ctx, "jobs").Warn().
			Err(err).
			Str("event", "normalize.history_failed").
			Msg("run not recorded in history")
		return
	}
	if err := r.store.Prune(ctx, historyKeep); err != nil {
		xlog.WithComponentFromContext(ctx, "jobs").Warn().
			Err(err).
			Str("event", "normalize.history_prune_failed").
			Msg("old history rows not pruned")
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return fmt.Errorf("config: no inputs")
	}
	if cfg.Output == "" {
		return fmt.Errorf("config: no output path")
	}
	return nil
}

// expandInputs resolves globs and literal paths into a sorted, deduped
// file list. No matching files at all is an error.
func expandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("read: bad input pattern %q: %w", pattern, err)
		}
		if matches == nil {
			// A literal path that does not exist surfaces as a decode
			// error later only if globbing found nothing anywhere.
			continue
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("read: no input files match %v", patterns)
	}
	sort.Strings(files)
	return files, nil
}
