// SPDX-License-Identifier: MIT

// Package health implements the liveness and readiness probes. Liveness
// only proves the process responds; readiness aggregates registered
// component checks and gates traffic until the first guide exists.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gitpan/xmltv/internal/log"
)

// Status grades one component or the aggregate.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// byRank maps aggregation ranks back to statuses, worst last.
var byRank = [3]Status{StatusHealthy, StatusDegraded, StatusUnhealthy}

// rank orders statuses for aggregation. Unknown statuses fold as
// unhealthy so a misbehaving checker cannot report a live system.
func rank(s Status) int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// CheckResult is the outcome of a single component check.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Uptime    int64                  `json:"uptime_seconds"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// ReadinessResponse is the readiness probe body.
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker is one named component check.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager aggregates component checks for the two probes.
type Manager struct {
	version  string
	started  time.Time
	checkers []Checker
}

// NewManager returns a Manager reporting the given build version.
func NewManager(version string) *Manager {
	return &Manager{
		version: version,
		started: time.Now(),
	}
}

// RegisterChecker adds a component check. Not safe to call once the
// probes are being served; register everything during startup.
func (m *Manager) RegisterChecker(checker Checker) {
	m.checkers = append(m.checkers, checker)
}

// Health is the liveness result. The process being able to answer is
// the check; component results are informational and only included
// when verbose.
func (m *Manager) Health(ctx context.Context, verbose bool) HealthResponse {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Version:   m.version,
		Uptime:    int64(time.Since(m.started).Seconds()),
		Timestamp: time.Now(),
	}
	if verbose && len(m.checkers) > 0 {
		resp.Checks, resp.Status = m.runChecks(ctx)
	}
	return resp
}

// Ready runs every registered check. Degraded components still serve;
// any unhealthy component fails readiness.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	resp := ReadinessResponse{
		Ready:     true,
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}
	if len(m.checkers) > 0 {
		resp.Checks, resp.Status = m.runChecks(ctx)
		resp.Ready = resp.Status != StatusUnhealthy
	}
	return resp
}

// runChecks runs every registered checker and folds the worst rank
// into the aggregate status.
func (m *Manager) runChecks(ctx context.Context) (map[string]CheckResult, Status) {
	checks := make(map[string]CheckResult, len(m.checkers))
	worst := 0
	for _, c := range m.checkers {
		result := c.Check(ctx)
		checks[c.Name()] = result
		if r := rank(result.Status); r > worst {
			worst = r
		}
	}
	return checks, byRank[worst]
}

// respond writes a probe body. Encode failures are logged, not
// surfaced; the status code is already on the wire.
func (m *Manager) respond(w http.ResponseWriter, r *http.Request, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithComponentFromContext(r.Context(), "health").Error().
			Err(err).
			Str("event", "probe.encode_failed").
			Str("path", r.URL.Path).
			Msg("encode probe response")
	}
}

// ServeHealth answers the liveness probe. Always 200. The verbose
// query flag (any strconv.ParseBool form) adds component detail.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	verbose, _ := strconv.ParseBool(r.URL.Query().Get("verbose"))
	resp := m.Health(r.Context(), verbose)
	m.respond(w, r, http.StatusOK, resp)

	log.WithComponentFromContext(r.Context(), "health").Debug().
		Str("event", "probe.health").
		Str("status", string(resp.Status)).
		Bool("verbose", verbose).
		Msg("liveness probe answered")
}

// ServeReady answers the readiness probe: 200 when ready, 503 when not.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	resp := m.Ready(r.Context())
	code := http.StatusOK
	if !resp.Ready {
		code = http.StatusServiceUnavailable
	}
	m.respond(w, r, code, resp)

	log.WithComponentFromContext(r.Context(), "health").Debug().
		Str("event", "probe.ready").
		Str("status", string(resp.Status)).
		Bool("ready", resp.Ready).
		Msg("readiness probe answered")
}

// OutputChecker probes the merged guide file. Missing means no run has
// completed yet; empty or stale output is degraded rather than dead.
type OutputChecker struct {
	name   string
	path   string
	maxAge time.Duration
}

// NewOutputChecker watches the guide at path. maxAge zero disables the
// staleness check.
func NewOutputChecker(name, path string, maxAge time.Duration) *OutputChecker {
	return &OutputChecker{name: name, path: path, maxAge: maxAge}
}

func (c *OutputChecker) Name() string { return c.name }

func (c *OutputChecker) Check(_ context.Context) CheckResult {
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "guide not written yet",
				Message: c.path,
			}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected file, got directory"}
	}
	if info.Size() == 0 {
		return CheckResult{Status: StatusDegraded, Message: "guide file is empty"}
	}
	if c.maxAge > 0 {
		if age := time.Since(info.ModTime()); age > c.maxAge {
			return CheckResult{
				Status:  StatusDegraded,
				Message: "guide older than " + c.maxAge.String(),
			}
		}
	}
	return CheckResult{Status: StatusHealthy, Message: "guide exists and readable"}
}

// LastRunChecker grades the most recent normalize run.
type LastRunChecker struct {
	getLastRun func() (time.Time, string)
}

// NewLastRunChecker wires the probe to the job status; getLastRun
// returns the completion time of the last run and its error text, empty
// on success.
func NewLastRunChecker(getLastRun func() (time.Time, string)) *LastRunChecker {
	return &LastRunChecker{getLastRun: getLastRun}
}

func (c *LastRunChecker) Name() string { return "last_run" }

func (c *LastRunChecker) Check(_ context.Context) CheckResult {
	lastRun, lastError := c.getLastRun()

	if lastRun.IsZero() {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "no completed run yet",
		}
	}
	if lastError != "" {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   lastError,
			Message: "last run failed",
		}
	}
	if time.Since(lastRun) > 24*time.Hour {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "last successful run over 24h ago",
		}
	}
	return CheckResult{Status: StatusHealthy, Message: "last run successful"}
}

// PingChecker wraps a connectivity probe such as the history store's
// Ping. Failures degrade rather than kill readiness: run history is
// advisory.
type PingChecker struct {
	name string
	ping func(ctx context.Context) error
}

// NewPingChecker builds a degraded-on-error checker around ping.
func NewPingChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if err := c.ping(ctx); err != nil {
		return CheckResult{Status: StatusDegraded, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}
