// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gitpan/xmltv/internal/config"
	"github.com/gitpan/xmltv/internal/watch"
)

// App owns the long-lived runtime wiring (config watcher, SIGHUP
// reload, input watcher) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	holder       *config.Holder
	watcher      *watch.Watcher // nil when watching is disabled
	reloadSignal os.Signal
}

// NewApp creates the daemon orchestrator. holder and watcher may be
// nil; the corresponding wiring is then skipped.
func NewApp(logger zerolog.Logger, manager Manager, holder *config.Holder, watcher *watch.Watcher) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		holder:       holder,
		watcher:      watcher,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run starts all background subsystems and blocks until ctx is
// cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// Config file watcher is best-effort: startup proceeds without it.
	if a.holder != nil {
		if err := a.holder.StartWatcher(ctx); err != nil {
			a.logger.Warn().
				Err(err).
				Str("event", "config.watcher_start_failed").
				Msg("failed to start config watcher")
		}
	}

	// Re-point the input watcher after every successful reload.
	if a.holder != nil && a.watcher != nil {
		reloadCh := make(chan config.Settings, 1)
		a.holder.RegisterListener(reloadCh)

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case cfg := <-reloadCh:
					a.watcher.SetInputs(cfg.Inputs)
				}
			}
		})
	}

	// SIGHUP triggers a manual reload.
	if a.holder != nil && a.reloadSignal != nil {
		g.Go(func() error {
			a.watchReloadSignal(ctx)
			return nil
		})
	}

	// Input watcher is best-effort; a setup failure loses auto-runs,
	// not the daemon.
	if a.watcher != nil {
		g.Go(func() error {
			if err := a.watcher.Run(ctx); err != nil {
				a.logger.Error().
					Err(err).
					Str("event", "watch.failed").
					Msg("input watcher failed")
			}
			return nil
		})
	}

	// The server owns process lifetime; its error ends the group.
	g.Go(func() error {
		if err := a.manager.Start(ctx); err != nil {
			_ = a.manager.Shutdown(context.Background())
			return err
		}
		return nil
	})

	return g.Wait()
}

// watchReloadSignal reloads the config whenever the reload signal
// arrives, until ctx is cancelled. Reload failures keep the previous
// config and the daemon running.
func (a *App) watchReloadSignal(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.reloadSignal)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			a.logger.Info().
				Str("event", "config.signal_reload").
				Str("signal", sig.String()).
				Msg("reloading config on signal")
			if err := a.holder.Reload(context.Background()); err != nil {
				a.logger.Warn().
					Err(err).
					Str("event", "config.signal_reload_failed").
					Msg("keeping previous config")
			}
		}
	}
}
