// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

func TestContextCarriage(t *testing.T) {
	tests := []struct {
		name string
		with func(context.Context, string) context.Context
		from func(context.Context) string
	}{
		{"request id", ContextWithRequestID, RequestIDFromContext},
		{"run id", ContextWithRunID, RunIDFromContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from(context.Background()); got != "" {
				t.Errorf("empty context carries %q", got)
			}
			if got := tt.from(nil); got != "" { //nolint:staticcheck // nil tolerance is part of the contract
				t.Errorf("nil context carries %q", got)
			}

			ctx := tt.with(context.Background(), "id-123")
			if got := tt.from(ctx); got != "id-123" {
				t.Errorf("round trip = %q, want id-123", got)
			}

			// nil parent must not panic and must still carry the value.
			ctx = tt.with(nil, "from-nil") //nolint:staticcheck
			if got := tt.from(ctx); got != "from-nil" {
				t.Errorf("nil parent round trip = %q", got)
			}
		})
	}
}

func TestContextKeysAreIndependent(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithRunID(ctx, "run-1")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("request id = %q", got)
	}
	if got := RunIDFromContext(ctx); got != "run-1" {
		t.Errorf("run id = %q", got)
	}
}

func logLine(t *testing.T, build func(zerolog.Logger)) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	build(zerolog.New(&buf))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log line: %v\n%s", err, buf.String())
	}
	return entry
}

func TestWithContextEnrichment(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-9")
	ctx = ContextWithRunID(ctx, "run-9")

	entry := logLine(t, func(l zerolog.Logger) {
		WithContext(ctx, l).Info().Msg("enriched")
	})
	if entry[FieldRequestID] != "req-9" {
		t.Errorf("request_id = %v", entry[FieldRequestID])
	}
	if entry[FieldRunID] != "run-9" {
		t.Errorf("run_id = %v", entry[FieldRunID])
	}
	if _, ok := entry["trace_id"]; ok {
		t.Error("trace_id present without an active span")
	}
}

func TestWithContextNoFields(t *testing.T) {
	entry := logLine(t, func(l zerolog.Logger) {
		WithContext(context.Background(), l).Info().Msg("plain")
	})
	for _, field := range []string{FieldRequestID, FieldRunID, "trace_id"} {
		if _, ok := entry[field]; ok {
			t.Errorf("unexpected %s on a bare context", field)
		}
	}
}

func TestWithContextTraceIDs(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0xab, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f},
		SpanID:     trace.SpanID{0xcd, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	entry := logLine(t, func(l zerolog.Logger) {
		WithContext(ctx, l).Info().Msg("traced")
	})
	if entry["trace_id"] != sc.TraceID().String() {
		t.Errorf("trace_id = %v, want %s", entry["trace_id"], sc.TraceID())
	}
	if entry["span_id"] != sc.SpanID().String() {
		t.Errorf("span_id = %v, want %s", entry["span_id"], sc.SpanID())
	}
}

func TestWithComponentFromContext(t *testing.T) {
	orig := base
	var buf bytes.Buffer
	base = zerolog.New(&buf)
	defer func() { base = orig }()

	ctx := ContextWithRunID(context.Background(), "run-42")
	WithComponentFromContext(ctx, "jobs").Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log line: %v", err)
	}
	if entry[FieldComponent] != "jobs" {
		t.Errorf("component = %v", entry[FieldComponent])
	}
	if entry[FieldRunID] != "run-42" {
		t.Errorf("run_id = %v", entry[FieldRunID])
	}
}

func TestFromContextFallsBackToBase(t *testing.T) {
	if l := FromContext(context.Background()); l == nil {
		t.Fatal("nil logger for plain context")
	}
	if l := FromContext(nil); l == nil { //nolint:staticcheck
		t.Fatal("nil logger for nil context")
	}

	var buf bytes.Buffer
	stored := zerolog.New(&buf)
	ctx := stored.WithContext(context.Background())
	got := FromContext(ctx)
	got.Info().Msg("via context")
	if buf.Len() == 0 {
		t.Error("context logger was not used")
	}
}
