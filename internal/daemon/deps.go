// SPDX-License-Identifier: MIT

package daemon

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Deps carries what the Manager needs to run. Injected rather than
// constructed so tests can swap the handler.
type Deps struct {
	// Logger is the daemon's structured logger.
	Logger zerolog.Logger

	// Listen is the HTTP bind address.
	Listen string

	// Handler is the API router.
	Handler http.Handler
}

// Validate checks the required dependencies.
func (d *Deps) Validate() error {
	if d.Handler == nil {
		return ErrMissingHandler
	}
	if d.Listen == "" {
		return ErrMissingListen
	}
	return nil
}
