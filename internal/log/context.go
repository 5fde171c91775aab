// SPDX-License-Identifier: MIT

// Package log provides structured logging utilities.
package log

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	runIDKey     ctxKey = "run_id"
)

// ContextWithRequestID stores the HTTP request id in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return contextWith(ctx, requestIDKey, id)
}

// ContextWithRunID stores the normalize run id in the context.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return contextWith(ctx, runIDKey, id)
}

func contextWith(ctx context.Context, key ctxKey, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, id)
}

// RequestIDFromContext extracts the HTTP request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	return fromValue(ctx, requestIDKey)
}

// RunIDFromContext extracts the normalize run id, or "".
func RunIDFromContext(ctx context.Context) string {
	return fromValue(ctx, runIDKey)
}

func fromValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// WithContext enriches logger with every correlation field the context
// carries: request id, run id, and the active trace/span ids when a
// span is recording. Derive the logger once per operation; all its
// lines then share the fields.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return logger
	}

	reqID := RequestIDFromContext(ctx)
	runID := RunIDFromContext(ctx)
	span := trace.SpanContextFromContext(ctx)
	if reqID == "" && runID == "" && !span.IsValid() {
		return logger
	}

	builder := logger.With()
	if reqID != "" {
		builder = builder.Str(FieldRequestID, reqID)
	}
	if runID != "" {
		builder = builder.Str(FieldRunID, runID)
	}
	if span.IsValid() {
		builder = builder.
			Str("trace_id", span.TraceID().String()).
			Str("span_id", span.SpanID().String())
	}
	return builder.Logger()
}

// WithComponentFromContext is WithComponent plus the context's
// correlation fields.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	base := FromContext(ctx)
	return WithContext(ctx, base.With().Str(FieldComponent, component).Logger())
}

// FromContext returns the zerolog logger stored in ctx, or the package
// base logger when the context has none.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	base := Base()
	return &base
}
