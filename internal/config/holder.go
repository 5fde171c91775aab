// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xlog "github.com/gitpan/xmltv/internal/log"
)

// Holder provides thread-safe access to the current Settings and hot
// reloading from the config file, triggered by file changes or SIGHUP.
type Holder struct {
	mu         sync.RWMutex
	current    Settings
	configPath string
	watcher    *fsnotify.Watcher
	logger     zerolog.Logger

	reloadMu        sync.RWMutex
	reloadListeners []chan<- Settings
}

// NewHolder wraps the initial settings. configPath may be empty when
// configuration is environment-only; Reload and StartWatcher are then
// no-ops beyond re-reading the environment.
func NewHolder(initial Settings, configPath string) *Holder {
	return &Holder{
		current:    initial,
		configPath: configPath,
		logger:     xlog.WithComponent("config"),
	}
}

// Get returns the current settings.
func (h *Holder) Get() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload re-runs the full load and swaps the settings atomically. On
// any load or validation error the previous settings stay in effect.
func (h *Holder) Reload(_ context.Context) error {
	h.logger.Info().Str("event", "config.reload_start").Msg("reloading configuration")

	newCfg, err := Load(h.configPath)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Msg("keeping previous configuration")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.current
	h.current = newCfg
	h.mu.Unlock()

	h.notifyListeners(newCfg)
	h.logChanges(oldCfg, newCfg)

	h.logger.Info().
		Str("event", "config.reload_success").
		Msg("configuration reloaded")
	return nil
}

// StartWatcher watches the config file and reloads on change. Without
// a config file this is a no-op.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.configPath == "" {
		h.logger.Info().
			Str("event", "config.watcher_disabled").
			Msg("no config file, watcher disabled")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	if err := watcher.Add(h.configPath); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}

	h.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", h.configPath).
		Msg("watching config file")

	go h.watchLoop(ctx)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context) {
	// Editors fire several events per save; collapse them.
	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			_ = h.watcher.Close()
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				h.logger.Debug().
					Str("event", "config.file_changed").
					Str("op", event.Op.String()).
					Msg("config file changed")
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					if err := h.Reload(ctx); err != nil {
						h.logger.Error().
							Err(err).
							Str("event", "config.auto_reload_failed").
							Msg("automatic config reload failed")
					}
				})
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop closes the file watcher if one is running.
func (h *Holder) Stop() {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
}

// RegisterListener adds a channel that receives the new settings after
// every successful reload. Sends are non-blocking; a full channel is
// skipped. The caller owns the channel.
func (h *Holder) RegisterListener(ch chan<- Settings) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	h.reloadListeners = append(h.reloadListeners, ch)
}

func (h *Holder) notifyListeners(newCfg Settings) {
	h.reloadMu.RLock()
	defer h.reloadMu.RUnlock()

	for _, ch := range h.reloadListeners {
		select {
		case ch <- newCfg:
		default:
			h.logger.Warn().
				Str("event", "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

func (h *Holder) logChanges(old, newCfg Settings) {
	if strings.Join(old.Inputs, ",") != strings.Join(newCfg.Inputs, ",") {
		h.logger.Info().
			Strs("old", old.Inputs).
			Strs("new", newCfg.Inputs).
			Msg("config changed: Inputs")
	}
	if old.Output != newCfg.Output {
		h.logger.Info().
			Str("old", old.Output).
			Str("new", newCfg.Output).
			Msg("config changed: Output")
	}
	if old.ByChannel != newCfg.ByChannel {
		h.logger.Info().
			Bool("old", old.ByChannel).
			Bool("new", newCfg.ByChannel).
			Msg("config changed: ByChannel")
	}
	if old.Location != newCfg.Location {
		h.logger.Info().
			Str("old", old.Location).
			Str("new", newCfg.Location).
			Msg("config changed: Location")
	}
	if old.Workers != newCfg.Workers {
		h.logger.Info().
			Int("old", old.Workers).
			Int("new", newCfg.Workers).
			Msg("config changed: Workers")
	}
	if old.Watch != newCfg.Watch {
		h.logger.Info().
			Bool("old", old.Watch).
			Bool("new", newCfg.Watch).
			Msg("config changed: Watch")
	}
}
