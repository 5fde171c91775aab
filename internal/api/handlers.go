// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gitpan/xmltv/internal/history"
	"github.com/gitpan/xmltv/internal/jobs"
	xlog "github.com/gitpan/xmltv/internal/log"
)

const (
	// maxGuideBytes caps what /xmltv will load into memory.
	maxGuideBytes = 50 * 1024 * 1024

	// normalizeTimeout bounds one API-triggered run.
	normalizeTimeout = 5 * time.Minute

	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// statusResponse is the GET /api/status contract.
type statusResponse struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	LastRun *jobs.Status `json:"last_run,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	logger := xlog.WithComponentFromContext(r.Context(), "api")

	resp := statusResponse{Status: "ok", Version: s.version}
	if st, ok := s.Status(); ok {
		resp.LastRun = &st
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str("event", "status.encode_error").Msg("failed to encode status response")
	}
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	logger := xlog.WithComponentFromContext(r.Context(), "api")

	path := strings.TrimSpace(s.holder.Get().Output)
	if path == "" {
		logger.Warn().Str("event", "guide.not_configured").Msg("output path not configured")
		http.Error(w, "guide not available", http.StatusNotFound)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().
				Str("event", "guide.not_found").
				Str(xlog.FieldPath, path).
				Msg("guide file not found")
			http.Error(w, "guide not available", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Str(xlog.FieldPath, path).Msg("failed to stat guide file")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if info.Size() > maxGuideBytes {
		logger.Warn().
			Int64("size", info.Size()).
			Str("event", "guide.too_large").
			Msg("guide file exceeds maximum size")
		http.Error(w, "guide too large", http.StatusRequestEntityTooLarge)
		return
	}

	// The path comes from our own configuration and the file is
	// written by us; no client input reaches it.
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldPath, path).Msg("failed to read guide file")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(data)
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	logger := xlog.WithComponentFromContext(r.Context(), "api")

	// Run on a detached context: the job should finish (and be
	// recorded) even if the client goes away mid-run.
	runCtx, cancel := context.WithTimeout(context.Background(), normalizeTimeout)
	defer cancel()

	start := time.Now()
	st, err := s.TriggerNormalize(runCtx, "api")
	duration := time.Since(start)

	if errors.Is(err, ErrRunInProgress) {
		logger.Warn().Str("event", "normalize.conflict").Msg("normalize already in progress")
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":  "conflict",
			"detail": "a normalize run is already in progress",
		})
		return
	}
	if err != nil {
		logger.Error().Err(err).
			Str("event", "normalize.request_failed").
			Int64("duration_ms", duration.Milliseconds()).
			Msg("normalize run failed")
		// Clients get a generic failure; details stay in logs and
		// history.
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info().
		Str("event", "normalize.request_success").
		Int64("duration_ms", duration.Milliseconds()).
		Int(xlog.FieldChannels, st.Report.Channels).
		Int(xlog.FieldProgrammes, st.Report.ProgrammesOut).
		Msg("normalize run complete")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		logger.Error().Err(err).Str("event", "normalize.encode_error").Msg("failed to encode normalize response")
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	logger := xlog.WithComponentFromContext(r.Context(), "api")

	if s.store == nil {
		http.Error(w, "run history disabled", http.StatusNotFound)
		return
	}

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		logger.Error().Err(err).Str("event", "runs.query_failed").Msg("failed to read run history")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []history.Run{} // empty list, not null
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(runs); err != nil {
		logger.Error().Err(err).Str("event", "runs.encode_error").Msg("failed to encode run history")
	}
}
