// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
)

// limitExceeded answers a throttled request with a JSON body and a
// Retry-After hint sized to the limiter window.
func limitExceeded(window time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate_limit_exceeded","detail":"Too many requests. Please try again later."}`))
	}
}

// perIP builds an httprate sliding-window limiter keyed by client IP.
func perIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitExceeded(window)),
	)
}

// APIRateLimit bounds general API traffic per client IP.
func APIRateLimit(perMinute int) func(http.Handler) http.Handler {
	return perIP(perMinute, time.Minute)
}

// NormalizeRateLimit bounds the normalize trigger more tightly than the
// general API budget: a run takes seconds, so 6 per minute per client is
// already generous.
func NormalizeRateLimit() func(http.Handler) http.Handler {
	return perIP(6, time.Minute)
}
