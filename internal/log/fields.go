// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"
	FieldChannelID = "channel_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Listing fields
	FieldChannels   = "channels"
	FieldProgrammes = "programmes"
	FieldStart      = "start"
	FieldStop       = "stop"
	FieldClumpIdx   = "clumpidx"
	FieldWarnings   = "warnings"

	// Path fields
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"
)
