// SPDX-License-Identifier: MIT

package daemon

import "errors"

var (
	// ErrMissingHandler is returned when no API handler is provided.
	ErrMissingHandler = errors.New("API handler is required")

	// ErrMissingListen is returned when no listen address is provided.
	ErrMissingListen = errors.New("listen address is required")

	// ErrMissingManager is returned when an App is created without a
	// manager.
	ErrMissingManager = errors.New("manager is required")

	// ErrManagerNotStarted is returned when shutting down a manager
	// that never started.
	ErrManagerNotStarted = errors.New("manager not started")

	// ErrAlreadyStarted is returned by a second Start on the same
	// manager.
	ErrAlreadyStarted = errors.New("manager already started")
)
