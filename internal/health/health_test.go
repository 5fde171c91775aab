// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name   string
	result CheckResult
}

func (s *stubChecker) Name() string                      { return s.name }
func (s *stubChecker) Check(context.Context) CheckResult { return s.result }

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name       string
		components []Status
		want       Status
		wantReady  bool
	}{
		{"no checkers", nil, StatusHealthy, true},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy, true},
		{"degraded keeps serving", []Status{StatusHealthy, StatusDegraded}, StatusDegraded, true},
		{"unhealthy beats degraded", []Status{StatusDegraded, StatusUnhealthy}, StatusUnhealthy, false},
		{"unknown folds as unhealthy", []Status{Status("bogus")}, StatusUnhealthy, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("0.3.1")
			for i, st := range tt.components {
				m.RegisterChecker(&stubChecker{
					name:   fmt.Sprintf("component%d", i),
					result: CheckResult{Status: st},
				})
			}

			ready := m.Ready(context.Background())
			assert.Equal(t, tt.want, ready.Status)
			assert.Equal(t, tt.wantReady, ready.Ready)
			assert.Len(t, ready.Checks, len(tt.components))

			// The verbose liveness view aggregates the same way.
			live := m.Health(context.Background(), true)
			if len(tt.components) == 0 {
				assert.Equal(t, StatusHealthy, live.Status)
			} else {
				assert.Equal(t, tt.want, live.Status)
			}
		})
	}
}

func TestHealthNonVerboseIgnoresComponents(t *testing.T) {
	m := NewManager("0.3.1")
	m.RegisterChecker(&stubChecker{
		name:   "guide",
		result: CheckResult{Status: StatusUnhealthy, Error: "gone"},
	})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "0.3.1", resp.Version)
	assert.GreaterOrEqual(t, resp.Uptime, int64(0))
	assert.Nil(t, resp.Checks)
}

func TestReadyCarriesCheckDetail(t *testing.T) {
	m := NewManager("0.3.1")
	m.RegisterChecker(&stubChecker{
		name:   "history",
		result: CheckResult{Status: StatusDegraded, Message: "ping slow", Error: "database locked"},
	})

	resp := m.Ready(context.Background())
	require.Contains(t, resp.Checks, "history")
	got := resp.Checks["history"]
	assert.Equal(t, StatusDegraded, got.Status)
	assert.Equal(t, "ping slow", got.Message)
	assert.Equal(t, "database locked", got.Error)
}

func TestProbeHandlers(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		component  Status
		wantCode   int
		wantStatus Status
		wantChecks int
	}{
		{"liveness ignores dead component", "/healthz", StatusUnhealthy, http.StatusOK, StatusHealthy, 0},
		{"liveness verbose lists components", "/healthz?verbose=1", StatusDegraded, http.StatusOK, StatusDegraded, 1},
		{"readiness keeps degraded in rotation", "/readyz", StatusDegraded, http.StatusOK, StatusDegraded, 1},
		{"readiness rejects unhealthy", "/readyz", StatusUnhealthy, http.StatusServiceUnavailable, StatusUnhealthy, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("0.3.1")
			m.RegisterChecker(&stubChecker{
				name:   "guide",
				result: CheckResult{Status: tt.component},
			})

			handler := m.ServeHealth
			if strings.HasPrefix(tt.target, "/readyz") {
				handler = m.ServeReady
			}
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body struct {
				Status Status                 `json:"status"`
				Checks map[string]CheckResult `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Len(t, body.Checks, tt.wantChecks)
		})
	}
}

func TestOutputChecker(t *testing.T) {
	dir := t.TempDir()
	fresh := filepath.Join(dir, "fresh.xml")
	require.NoError(t, os.WriteFile(fresh, []byte("<tv/>"), 0o644))
	empty := filepath.Join(dir, "empty.xml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	stale := filepath.Join(dir, "stale.xml")
	require.NoError(t, os.WriteFile(stale, []byte("<tv/>"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	tests := []struct {
		name   string
		path   string
		maxAge time.Duration
		want   Status
	}{
		{"missing", filepath.Join(dir, "nope.xml"), 0, StatusUnhealthy},
		{"directory", dir, 0, StatusUnhealthy},
		{"empty", empty, 0, StatusDegraded},
		{"stale", stale, 24 * time.Hour, StatusDegraded},
		{"stale but checking disabled", stale, 0, StatusHealthy},
		{"fresh", fresh, 24 * time.Hour, StatusHealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOutputChecker("output", tt.path, tt.maxAge)
			assert.Equal(t, "output", c.Name())
			assert.Equal(t, tt.want, c.Check(context.Background()).Status)
		})
	}
}

func TestLastRunChecker(t *testing.T) {
	tests := []struct {
		name    string
		lastRun time.Time
		lastErr string
		want    Status
	}{
		{"never ran", time.Time{}, "", StatusUnhealthy},
		{"failed", time.Now(), "decode broke", StatusUnhealthy},
		{"old", time.Now().Add(-25 * time.Hour), "", StatusDegraded},
		{"recent", time.Now().Add(-time.Minute), "", StatusHealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLastRunChecker(func() (time.Time, string) {
				return tt.lastRun, tt.lastErr
			})
			assert.Equal(t, "last_run", c.Name())
			assert.Equal(t, tt.want, c.Check(context.Background()).Status)
		})
	}
}

func TestPingChecker(t *testing.T) {
	healthy := NewPingChecker("history", func(context.Context) error { return nil })
	assert.Equal(t, "history", healthy.Name())
	assert.Equal(t, StatusHealthy, healthy.Check(context.Background()).Status)

	// Ping failures degrade readiness, they do not fail it.
	down := NewPingChecker("history", func(context.Context) error {
		return errors.New("database locked")
	})
	result := down.Check(context.Background())
	assert.Equal(t, StatusDegraded, result.Status)
	assert.Equal(t, "database locked", result.Error)
}
