// Package middleware carries the request-scoped observability layer: one
// structured log line and one set of Prometheus observations per call.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "perfapi"

// RequestsTotal counts handled requests.
// Labels:
//   - mode: "naive" or "optimized"
//   - path: the registered route pattern (e.g. "/users/{id}")
//   - status: numeric HTTP status
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"mode", "path", "status"},
)

// RequestDuration measures wall-clock handling time per route. The naive
// mode's bottlenecks (N+1 listing, quadratic search, iterated hashing) show
// up here as fatter upper buckets.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"mode", "path"},
)

// Metrics records count and duration for every request under the given mode
// label.
func Metrics(mode string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}

			RequestsTotal.WithLabelValues(mode, path, strconv.Itoa(ww.Status())).Inc()
			RequestDuration.WithLabelValues(mode, path).Observe(time.Since(start).Seconds())
		})
	}
}
