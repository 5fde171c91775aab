// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gitpan/xmltv/internal/log"
)

// HeaderRequestID is the correlation id header honored and echoed by
// the server.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen bounds accepted inbound ids; the id ends up in every
// log line for the request.
const maxRequestIDLen = 64

// RequestID assigns every request a correlation id: a well-formed
// incoming header wins, otherwise a fresh uuid. The id is echoed in
// the response and carried in the request context for the access log.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sanitizeRequestID(r.Header.Get(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(log.ContextWithRequestID(r.Context(), id)))
	})
}

// sanitizeRequestID returns id when it is usable as a log field, ""
// when a replacement should be minted. Usable means non-empty, at most
// maxRequestIDLen bytes, printable ASCII without spaces.
func sanitizeRequestID(id string) string {
	if id == "" || len(id) > maxRequestIDLen {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return ""
		}
	}
	return id
}
