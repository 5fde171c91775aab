// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xmltv_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xmltv_http_requests_in_flight",
		Help: "Requests currently being served.",
	})

	requestBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xmltv_http_request_size_bytes",
		Help:    "Request body sizes as reported by Content-Length.",
		Buckets: prometheus.ExponentialBuckets(256, 4, 8),
	}, []string{"method", "path"})

	responseBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xmltv_http_response_size_bytes",
		Help:    "Response body sizes in bytes.",
		Buckets: prometheus.ExponentialBuckets(256, 4, 8),
	}, []string{"method", "path", "status"})
)

// Metrics instruments each request with duration, in-flight and size
// collectors. Paths are labelled by chi route pattern so a guide fetch
// and a status poll stay distinct without per-URL cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestsInFlight.Inc()
			defer requestsInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			path := routeLabel(r)
			status := strconv.Itoa(rec.status)
			requestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			if r.ContentLength > 0 {
				requestBytes.WithLabelValues(r.Method, path).Observe(float64(r.ContentLength))
			}
			if rec.bytes > 0 {
				responseBytes.WithLabelValues(r.Method, path, status).Observe(float64(rec.bytes))
			}
		})
	}
}

// routeLabel prefers the chi route pattern over the raw URL path, keeping
// label cardinality bounded. The pattern is only available after routing,
// which is why all observations happen once the handler returns.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// statusRecorder captures the response status and byte count without
// changing what the client sees.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}
