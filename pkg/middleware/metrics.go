// Package middleware provides the HTTP middleware shared by the catalog
// service: request ids, Prometheus metrics, timeouts, CORS and rate limits.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/metrics"
)

// Metrics records request count, latency and the in-flight gauge.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			path := normalizePath(r.URL.Path)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wroteHeader = true
	return sw.ResponseWriter.Write(b)
}

// normalizePath collapses path parameters so label cardinality stays bounded:
// /api/v1/games/12 becomes /api/v1/games/{id} and
// /api/v1/tags/indie/games becomes /api/v1/tags/{name}/games.
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		switch parts[i-1] {
		case "games":
			if _, err := strconv.Atoi(parts[i]); err == nil {
				parts[i] = "{id}"
			}
		case "tags", "genres":
			if parts[i] != "" {
				parts[i] = "{name}"
			}
		}
	}
	return strings.Join(parts, "/")
}
