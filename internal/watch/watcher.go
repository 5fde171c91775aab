// SPDX-License-Identifier: MIT

// Package watch re-runs normalization when input files change.
// Filesystem events are debounced, and runs are throttled so a storm
// of events cannot stampede the pipeline.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	xlog "github.com/gitpan/xmltv/internal/log"
)

// Options tunes the watcher.
type Options struct {
	// Debounce collapses a burst of events into one trigger. Grabbers
	// often rewrite several input files back to back.
	Debounce time.Duration

	// MinInterval is the floor between consecutive triggered runs.
	MinInterval time.Duration
}

const (
	defaultDebounce    = 2 * time.Second
	defaultMinInterval = 30 * time.Second
)

// Watcher invokes a run function when files matching the input
// patterns change. The parent directories of the patterns are watched,
// so atomically replaced files (write to temp, rename over) are seen
// as creations.
type Watcher struct {
	mu       sync.Mutex
	patterns []string
	dirs     []string
	fsw      *fsnotify.Watcher // non-nil while Run is active

	debounce time.Duration
	limiter  *rate.Limiter
	run      func(ctx context.Context)
	logger   zerolog.Logger
}

// New builds a watcher over the input patterns. run is invoked after
// each debounced change, at most once per MinInterval.
func New(inputs []string, run func(ctx context.Context), opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = defaultMinInterval
	}
	patterns, dirs := watchTargets(inputs)
	return &Watcher{
		patterns: patterns,
		dirs:     dirs,
		debounce: opts.Debounce,
		limiter:  rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		run:      run,
		logger:   xlog.WithComponent("watch"),
	}
}

// watchTargets cleans the patterns and derives the unique parent
// directories to watch.
func watchTargets(inputs []string) (patterns, dirs []string) {
	seen := make(map[string]struct{})
	for _, in := range inputs {
		p := filepath.Clean(in)
		patterns = append(patterns, p)
		dir := filepath.Dir(p)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return patterns, dirs
}

// Run watches until ctx is cancelled. It returns an error only when
// the watcher cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	w.mu.Lock()
	if w.fsw != nil {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.fsw = fsw
	dirs := w.dirs
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.fsw = nil
		w.mu.Unlock()
	}()

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	if len(dirs) == 0 {
		w.logger.Warn().
			Str("event", "watch.no_inputs").
			Msg("no input patterns to watch")
	}

	w.logger.Info().
		Str("event", "watch.started").
		Strs("dirs", dirs).
		Msg("watching input directories")

	// Capacity one: bursts collapse, but the latest change is never
	// lost while a run is in flight.
	triggers := make(chan struct{}, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.eventLoop(ctx, fsw, triggers) })
	g.Go(func() error { return w.triggerLoop(ctx, triggers) })
	return g.Wait()
}

func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher, triggers chan<- struct{}) error {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "watch.stopped").Msg("input watcher stopped")
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.matches(ev.Name) {
				continue
			}
			w.logger.Debug().
				Str("event", "watch.file_changed").
				Str(xlog.FieldPath, ev.Name).
				Str("op", ev.Op.String()).
				Msg("input file changed")
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounce, func() {
				select {
				case triggers <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Str("event", "watch.error").Msg("input watcher error")
		}
	}
}

func (w *Watcher) triggerLoop(ctx context.Context, triggers <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-triggers:
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.logger.Info().Str("event", "watch.trigger").Msg("input change triggers normalize run")
			w.run(ctx)
		}
	}
}

func (w *Watcher) matches(name string) bool {
	name = filepath.Clean(name)
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// SetInputs swaps the watched patterns, re-arming directory watches
// when the watcher is running. Called on config reload.
func (w *Watcher) SetInputs(inputs []string) {
	patterns, dirs := watchTargets(inputs)

	w.mu.Lock()
	oldDirs := w.dirs
	w.patterns = patterns
	w.dirs = dirs
	fsw := w.fsw
	w.mu.Unlock()

	if fsw == nil {
		return
	}
	for _, dir := range oldDirs {
		// May already be gone; removal failures are harmless.
		_ = fsw.Remove(dir)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn().
				Err(err).
				Str("event", "watch.add_failed").
				Str(xlog.FieldPath, dir).
				Msg("cannot watch input directory")
		}
	}
	w.logger.Info().
		Str("event", "watch.inputs_updated").
		Strs("dirs", dirs).
		Msg("watch list updated")
}
