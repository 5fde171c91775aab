// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gitpan/xmltv/internal/api/middleware"
)

// globalRateLimit is the per-IP ceiling across all endpoints when the
// settings carry none; the normalize trigger has its own, much lower
// budget on top of it.
const globalRateLimit = 300

// Router assembles the HTTP surface behind the shared middleware
// stack. Rate limits are read once when the router is built; a config
// reload does not rebuild the stack.
func (s *Server) Router() http.Handler {
	perMinute := s.holder.Get().RateLimit
	if perMinute <= 0 {
		perMinute = globalRateLimit
	}
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:      true,
		TracingService:     "xmltv-api",
		EnableLogging:      true,
		RateLimitPerMinute: perMinute,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/xmltv", s.handleGuide)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/runs", s.handleRuns)

	r.With(middleware.NormalizeRateLimit()).Post("/api/normalize", s.handleNormalize)

	return r
}
