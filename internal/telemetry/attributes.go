// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys used on spans across the application.
const (
	// Run attributes
	RunIDKey      = "run.id"
	RunTriggerKey = "run.trigger"

	// Document attributes
	DocPathKey  = "doc.path"
	DocBytesKey = "doc.bytes"

	// Schedule attributes
	ScheduleChannelsKey      = "schedule.channels"
	ScheduleProgrammesInKey  = "schedule.programmes_in"
	ScheduleProgrammesOutKey = "schedule.programmes_out"
	ScheduleDuplicatesKey    = "schedule.duplicates"
	ScheduleStopsInferredKey = "schedule.stops_inferred"
	ScheduleWarningsKey      = "schedule.warnings"

	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"
	HTTPStatusCodeKey = "http.status_code"

	// Error attributes
	ErrorKey      = "error"
	ErrorStageKey = "error.stage"
)

// RunAttributes identifies one normalize run on a span.
func RunAttributes(runID, trigger string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(RunIDKey, runID),
		attribute.String(RunTriggerKey, trigger),
	}
}

// DocumentAttributes describes an input or output document.
func DocumentAttributes(path string, bytes int64) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if path != "" {
		attrs = append(attrs, attribute.String(DocPathKey, path))
	}
	if bytes > 0 {
		attrs = append(attrs, attribute.Int64(DocBytesKey, bytes))
	}
	return attrs
}

// ScheduleAttributes carries the run report counters.
func ScheduleAttributes(channels, in, out, duplicates, inferred, warnings int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(ScheduleChannelsKey, channels),
		attribute.Int(ScheduleProgrammesInKey, in),
		attribute.Int(ScheduleProgrammesOutKey, out),
		attribute.Int(ScheduleDuplicatesKey, duplicates),
		attribute.Int(ScheduleStopsInferredKey, inferred),
		attribute.Int(ScheduleWarningsKey, warnings),
	}
}

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ErrorAttributes marks a span as failed at a pipeline stage.
func ErrorAttributes(stage string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorStageKey, stage),
	}
}
