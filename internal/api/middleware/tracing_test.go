// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTracing_PassesRequestThrough(t *testing.T) {
	// With no provider configured the tracer is a noop; the middleware
	// must still be transparent to the handler chain.
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	traced := Tracing("test-service")(handler)

	req := httptest.NewRequest(http.MethodGet, "/xmltv", nil)
	w := httptest.NewRecorder()
	traced.ServeHTTP(w, req)

	if !called {
		t.Fatal("handler was not invoked")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
	if w.Body.String() != "short and stout" {
		t.Errorf("body = %q, want passthrough", w.Body.String())
	}
}

func TestTracing_DefaultStatusOK(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Write without an explicit WriteHeader.
		_, _ = w.Write([]byte("implicit 200"))
	})

	traced := Tracing("test-service")(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	traced.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
