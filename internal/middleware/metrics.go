package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"media-catalog/internal/metrics"
)

// metricsResponseWriter captures the status code and, for streaming
// responses, the time the first byte was sent.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	start       time.Time
	firstByte   time.Time
	streaming   bool
	wroteHeader bool
}

func newMetricsResponseWriter(w http.ResponseWriter, start time.Time, streaming bool) *metricsResponseWriter {
	return &metricsResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		start:          start,
		streaming:      streaming,
	}
}

func (rw *metricsResponseWriter) markFirstByte() {
	if !rw.wroteHeader {
		rw.wroteHeader = true
		rw.firstByte = time.Now()
	}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.markFirstByte()
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	rw.markFirstByte()
	return rw.ResponseWriter.Write(b)
}

func (rw *metricsResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// GetDuration returns the time to first byte for streaming responses and the
// total elapsed time otherwise.
func (rw *metricsResponseWriter) GetDuration() time.Duration {
	if rw.streaming && !rw.firstByte.IsZero() {
		return rw.firstByte.Sub(rw.start)
	}
	return time.Since(rw.start)
}

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are paths that should not be recorded
	SkipPaths []string
}

// DefaultMetricsConfig returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths: []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"},
	}
}

// Metrics returns a middleware that records Prometheus metrics
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			wrapped := newMetricsResponseWriter(w, time.Now(), isStreamingPath(r.URL.Path))

			next.ServeHTTP(wrapped, r)

			path := routeLabel(r)
			status := strconv.Itoa(wrapped.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(wrapped.GetDuration().Seconds())
		})
	}
}

// isStreamingPath reports whether path is a long-lived scan event stream,
// whose duration is measured to first byte.
func isStreamingPath(path string) bool {
	return strings.HasPrefix(path, "/api/scans/") && strings.HasSuffix(path, "/events")
}

// routeLabel uses the matched route template so IDs and file paths do not
// create new label values.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return normalizePath(r.URL.Path)
}

// normalizePath bounds cardinality for requests that matched no route
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i > 3 {
			parts[i] = "{path}"
			return strings.Join(parts[:i+1], "/")
		}
	}
	return path
}
