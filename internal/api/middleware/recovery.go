// SPDX-License-Identifier: MIT

package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/gitpan/xmltv/internal/log"
)

// Recoverer converts a panic in any downstream handler into a logged
// 500 response. http.ErrAbortHandler is re-raised untouched so handlers
// keep the standard way to abort a response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			respondPanic(w, r, rec)
		}()
		next.ServeHTTP(w, r)
	})
}

// respondPanic logs the panic with its stack and answers with a JSON
// 500 carrying the request id, so a client-side report can be matched
// to the log line.
func respondPanic(w http.ResponseWriter, r *http.Request, rec any) {
	log.WithComponentFromContext(r.Context(), "recoverer").Error().
		Str("event", "panic.recovered").
		Str("method", r.Method).
		Str(log.FieldPath, r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Any("panic", rec).
		Bytes("stack", debug.Stack()).
		Msg("panic recovered in HTTP handler")

	body := map[string]string{
		"error":  "internal",
		"detail": "The server hit an unexpected condition handling the request.",
	}
	if reqID := log.RequestIDFromContext(r.Context()); reqID != "" {
		body["request_id"] = reqID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(body)
}
