// SPDX-License-Identifier: MIT

// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/gitpan/xmltv/internal/telemetry"
)

// Tracing wraps each request in an OpenTelemetry server span, continuing
// an incoming W3C trace context when present.
func Tracing(tracerName string) func(http.Handler) http.Handler {
	tracer := telemetry.Tracer(tracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			// Once routing has picked a pattern, rename the span to it so
			// all requests for one route share a span name.
			if pattern := routeLabel(r); pattern != r.URL.Path {
				span.SetName(r.Method + " " + pattern)
			}

			span.SetAttributes(telemetry.HTTPAttributes(r.Method, r.URL.Path, r.URL.String(), rec.status)...)

			// 4xx is a client-side issue; only 5xx marks the span failed.
			if rec.status >= 500 {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
				return
			}
			span.SetStatus(codes.Ok, "")
		})
	}
}
