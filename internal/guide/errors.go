// SPDX-License-Identifier: MIT

package guide

import "errors"

// ErrInternal marks a violated engine postcondition: a processed sequence
// failed its own ordering check. It always indicates an engine bug, never
// a data problem, and aborts the whole run.
var ErrInternal = errors.New("guide: internal invariant violated")

// ErrBadRecord marks an input-contract violation: a programme missing its
// channel or start attribute, or carrying an unparseable temporal value.
// The run fails rather than fabricate a value; stop inference is the only
// temporal field the engine is allowed to fill in.
var ErrBadRecord = errors.New("guide: invalid input record")
