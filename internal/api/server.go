// SPDX-License-Identifier: MIT

// Package api exposes the daemon's HTTP surface: the normalized guide
// document, run status and history, a manual normalize trigger and the
// health endpoints.
package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gitpan/xmltv/internal/config"
	"github.com/gitpan/xmltv/internal/health"
	"github.com/gitpan/xmltv/internal/history"
	"github.com/gitpan/xmltv/internal/jobs"
)

// ErrRunInProgress is returned by TriggerNormalize when a run is
// already active.
var ErrRunInProgress = errors.New("normalize run already in progress")

// Server carries the handler state for one daemon instance.
type Server struct {
	mu          sync.RWMutex
	normalizing atomic.Bool // serialize API-triggered runs via atomic flag

	holder  *config.Holder
	store   *history.Store
	health  *health.Manager
	version string

	status    jobs.Status
	hasStatus bool

	// normalizeFn allows tests to stub the run; defaults to the
	// runner's Normalize.
	normalizeFn func(context.Context, jobs.Config) (*jobs.Status, error)
}

// NewServer wires the API around the shared configuration holder, the
// run executor, the optional run history store and the health manager.
func NewServer(holder *config.Holder, runner *jobs.Runner, store *history.Store, healthMgr *health.Manager, version string) *Server {
	return &Server{
		holder:      holder,
		store:       store,
		health:      healthMgr,
		version:     version,
		normalizeFn: runner.Normalize,
	}
}

// TriggerNormalize executes one run and publishes the outcome. Every
// trigger (API, watcher, startup) funnels through here, so at most one
// run is active at a time; concurrent callers get ErrRunInProgress.
func (s *Server) TriggerNormalize(ctx context.Context, trigger string) (*jobs.Status, error) {
	if !s.normalizing.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.normalizing.Store(false)

	st, err := s.normalizeFn(ctx, jobs.ConfigFromSettings(s.holder.Get(), trigger))
	s.RecordRun(st, err)
	return st, err
}

// RecordRun publishes the outcome of a normalize run, whatever its
// trigger, so status and readiness reflect the newest run. A failed
// run keeps the previous counts visible and replaces only the error
// text; internal detail stays in logs and history.
func (s *Server) RecordRun(st *jobs.Status, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status.Error = "normalize run failed"
		s.hasStatus = true
		return
	}
	if st == nil {
		return
	}
	s.status = *st
	s.status.Error = ""
	s.hasStatus = true
}

// Status returns a copy of the last published run outcome. ok is false
// until any run completes.
func (s *Server) Status() (jobs.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.hasStatus
}

// LastRun feeds the readiness probe: completion time of the last
// successful run and the current error text, empty when healthy.
func (s *Server) LastRun() (time.Time, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status.LastRun, s.status.Error
}
