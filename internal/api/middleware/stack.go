// SPDX-License-Identifier: MIT

package middleware

import (
	"github.com/go-chi/chi/v5"

	xlog "github.com/gitpan/xmltv/internal/log"
)

// StackConfig selects the cross-cutting layers applied to every route.
type StackConfig struct {
	// EnableMetrics records per-route counters and latency histograms.
	EnableMetrics bool

	// TracingService names the tracer for server spans. Empty turns
	// tracing off.
	TracingService string

	// EnableLogging emits one structured access log line per request.
	EnableLogging bool

	// RateLimitPerMinute bounds requests per client IP; 0 disables.
	RateLimitPerMinute int
}

// NewRouter returns a chi router with the standard stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack installs the shared middleware in a fixed order: recovery
// and request ids wrap everything, then metrics, tracing and logging,
// with rate limiting innermost so rejected requests still show up in
// metrics and access logs.
func ApplyStack(r chi.Router, cfg StackConfig) {
	r.Use(Recoverer, RequestID)

	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	if cfg.TracingService != "" {
		r.Use(Tracing(cfg.TracingService))
	}
	if cfg.EnableLogging {
		r.Use(xlog.Middleware())
	}
	if cfg.RateLimitPerMinute > 0 {
		r.Use(APIRateLimit(cfg.RateLimitPerMinute))
	}
}
