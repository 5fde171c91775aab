// SPDX-License-Identifier: MIT

// Package daemon owns the long-running process lifecycle: the HTTP
// server, config reload wiring, the input watcher and ordered
// shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gitpan/xmltv/internal/config"
)

// ShutdownHook performs cleanup during graceful shutdown. Hooks run in
// reverse registration order.
type ShutdownHook func(ctx context.Context) error

// Manager runs the HTTP server and coordinates shutdown.
type Manager interface {
	// Start serves until ctx is cancelled or the server fails.
	Start(ctx context.Context) error

	// Shutdown drains the server and runs the shutdown hooks.
	Shutdown(ctx context.Context) error

	// RegisterShutdownHook adds a cleanup step, run LIFO on shutdown.
	RegisterShutdownHook(name string, hook ShutdownHook)
}

// Lifecycle states. A manager moves through them in one direction.
const (
	stateNew = iota
	stateRunning
	stateStopped
)

type manager struct {
	serverCfg config.ServerConfig
	deps      Deps

	mu     sync.Mutex
	state  int
	server *http.Server
	hooks  []namedHook

	logger zerolog.Logger
}

type namedHook struct {
	name string
	hook ShutdownHook
}

// NewManager validates deps and builds the lifecycle manager.
func NewManager(serverCfg config.ServerConfig, deps Deps) (Manager, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	return &manager{
		serverCfg: serverCfg,
		deps:      deps,
		logger:    deps.Logger.With().Str("component", "manager").Logger(),
	}, nil
}

// Start brings the HTTP server up and blocks until ctx is cancelled or
// the listener fails. Either way the full shutdown sequence has run by
// the time Start returns.
func (m *manager) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("start context is nil")
	}

	m.mu.Lock()
	if m.state != stateNew {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.state = stateRunning
	m.server = &http.Server{
		Addr:              m.deps.Listen,
		Handler:           m.deps.Handler,
		ReadTimeout:       m.serverCfg.ReadTimeout,
		ReadHeaderTimeout: m.serverCfg.ReadTimeout / 2,
		WriteTimeout:      m.serverCfg.WriteTimeout,
		IdleTimeout:       m.serverCfg.IdleTimeout,
		MaxHeaderBytes:    m.serverCfg.MaxHeaderBytes,
	}
	m.mu.Unlock()

	m.logger.Info().
		Str("listen", m.deps.Listen).
		Dur("read_timeout", m.serverCfg.ReadTimeout).
		Dur("write_timeout", m.serverCfg.WriteTimeout).
		Dur("shutdown_timeout", m.serverCfg.ShutdownTimeout).
		Msg("starting daemon manager")

	serveErr := make(chan error, 1)
	go func() {
		m.logger.Info().Str("addr", m.deps.Listen).Msg("API server listening")
		err := m.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error().Err(err).Str("event", "server.failed").Msg("API server failed")
			serveErr <- fmt.Errorf("api server: %w", err)
		}
	}()

	var cause error
	select {
	case cause = <-serveErr:
		m.logger.Error().Err(cause).Msg("server failed, shutting down")
	case <-ctx.Done():
		m.logger.Info().Msg("shutdown signal received")
	}

	// Shutdown keeps going even though the parent context is already
	// done; only the configured timeout bounds it.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.serverCfg.ShutdownTimeout)
	defer cancel()
	if err := m.Shutdown(shutdownCtx); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Shutdown drains the server and runs the registered hooks newest
// first. The first call wins; later calls return nil.
func (m *manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return errors.New("shutdown context is nil")
	}

	m.mu.Lock()
	switch m.state {
	case stateNew:
		m.mu.Unlock()
		return ErrManagerNotStarted
	case stateStopped:
		m.mu.Unlock()
		return nil
	}
	m.state = stateStopped
	server := m.server
	hooks := m.hooks
	m.mu.Unlock()

	m.logger.Info().Msg("shutting down daemon manager")

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.serverCfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if server != nil {
		if err := server.Shutdown(drainCtx); err != nil {
			errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
		}
	}
	errs = append(errs, m.runHooks(drainCtx, hooks)...)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	m.logger.Info().Msg("daemon manager stopped cleanly")
	return nil
}

// runHooks executes hooks newest-first so later registrations can lean
// on earlier ones still being alive. A failing hook does not stop the
// rest.
func (m *manager) runHooks(ctx context.Context, hooks []namedHook) []error {
	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		began := time.Now()
		if err := h.hook(ctx); err != nil {
			m.logger.Error().
				Err(err).
				Str("hook", h.name).
				Dur("duration", time.Since(began)).
				Msg("shutdown hook failed")
			errs = append(errs, fmt.Errorf("hook %s: %w", h.name, err))
			continue
		}
		m.logger.Debug().
			Str("hook", h.name).
			Dur("duration", time.Since(began)).
			Msg("shutdown hook completed")
	}
	return errs
}

// RegisterShutdownHook adds a cleanup function, run LIFO on shutdown.
func (m *manager) RegisterShutdownHook(name string, hook ShutdownHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, namedHook{name: name, hook: hook})
	m.logger.Debug().Str("hook", name).Msg("registered shutdown hook")
}
