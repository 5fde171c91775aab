// SPDX-License-Identifier: MIT

// Command daemon runs xmltvd: the long-running normalizer with the
// HTTP API, input watching and config hot reload.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gitpan/xmltv/internal/api"
	"github.com/gitpan/xmltv/internal/config"
	"github.com/gitpan/xmltv/internal/daemon"
	"github.com/gitpan/xmltv/internal/health"
	"github.com/gitpan/xmltv/internal/history"
	"github.com/gitpan/xmltv/internal/jobs"
	xlog "github.com/gitpan/xmltv/internal/log"
	"github.com/gitpan/xmltv/internal/telemetry"
	"github.com/gitpan/xmltv/internal/watch"
)

// Overridden at build time via -ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// outputMaxAge is how stale the written guide may get before the
// output health check degrades.
const outputMaxAge = 48 * time.Hour

// watcherRunTimeout bounds a single watcher-triggered normalize run.
const watcherRunTimeout = 5 * time.Minute

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	logger := xlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Precedence: ENV > file > defaults.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}

	// The base logger is built at package init; only the level follows
	// the loaded config.
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if *configPath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", *configPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	if err := health.PerformStartupChecks(cfg); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.check_failed").
			Msg("Startup checks failed. Please verify configuration and permissions.")
	}

	serverCfg := config.ParseServerConfig()

	tp, err := telemetry.NewProvider(ctx, cfg.Telemetry("xmltvd", version))
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "telemetry.init_failed").
			Msg("failed to initialise tracing")
	}

	// Run history is advisory: a broken database costs the /api/runs
	// endpoint, not the daemon.
	var store *history.Store
	if cfg.HistoryDB != "" {
		store, err = history.Open(cfg.HistoryDB)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("event", "history.open_failed").
				Str("path", cfg.HistoryDB).
				Msg("run history disabled")
			store = nil
		}
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.Listen).
		Msg("starting xmltvd")

	logger.Info().Msgf("→ Inputs: %d pattern(s)", len(cfg.Inputs))
	logger.Info().Msgf("→ Output: %s", cfg.Output)
	logger.Info().Msgf("→ Location: %s", cfg.Location)
	if cfg.ByChannel {
		logger.Info().Msg("→ Partition: per-channel guides")
	}
	if cfg.AliasFile != "" {
		logger.Info().Msgf("→ Aliases: %s", cfg.AliasFile)
	}
	if store != nil {
		logger.Info().Msgf("→ History: %s", cfg.HistoryDB)
	}
	logger.Info().Msgf("→ Data dir: %s", cfg.DataDir)

	holder := config.NewHolder(cfg, *configPath)
	runner := jobs.NewRunner(store)
	hm := health.NewManager(version)
	srv := api.NewServer(holder, runner, store, hm, version)

	hm.RegisterChecker(health.NewOutputChecker("output", cfg.Output, outputMaxAge))
	hm.RegisterChecker(health.NewLastRunChecker(srv.LastRun))
	if store != nil {
		hm.RegisterChecker(health.NewPingChecker("history", store.Ping))
	}

	if cfg.InitialRun {
		logger.Info().Msg("performing initial normalize run on startup")
		if _, err := srv.TriggerNormalize(ctx, "startup"); err != nil {
			logger.Error().Err(err).Msg("initial normalize run failed")
			logger.Warn().Msg("→ Guide will be empty until a run succeeds via POST /api/normalize")
		} else {
			logger.Info().Msg("initial normalize run completed successfully")
		}
	} else {
		logger.Warn().Msg("Initial run is disabled (initial_run=false)")
		logger.Warn().Msg("→ No guide written. Trigger a run via: POST /api/normalize")
	}

	var w *watch.Watcher
	if cfg.Watch {
		w = watch.New(cfg.Inputs, func(runCtx context.Context) {
			runCtx, cancel := context.WithTimeout(runCtx, watcherRunTimeout)
			defer cancel()
			if _, err := srv.TriggerNormalize(runCtx, "watcher"); err != nil {
				if errors.Is(err, api.ErrRunInProgress) {
					logger.Debug().
						Str("event", "watch.run_skipped").
						Msg("input change ignored, run already in progress")
					return
				}
				logger.Error().
					Err(err).
					Str("event", "watch.run_failed").
					Msg("watcher-triggered normalize run failed")
			}
		}, watch.Options{})
		logger.Info().Msg("→ Watch: re-running on input changes")
	}

	mgr, err := daemon.NewManager(serverCfg, daemon.Deps{
		Logger:  logger,
		Listen:  cfg.Listen,
		Handler: srv.Router(),
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation.failed").
			Msg("failed to create daemon manager")
	}

	// Hooks run in reverse order on shutdown.
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	mgr.RegisterShutdownHook("config-watcher", func(context.Context) error {
		holder.Stop()
		return nil
	})
	if store != nil {
		mgr.RegisterShutdownHook("history", func(context.Context) error {
			return store.Close()
		})
	}

	app := daemon.NewApp(logger, mgr, holder, w)
	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon app failed")
	}

	logger.Info().Msg("server exiting")
}
