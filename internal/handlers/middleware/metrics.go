package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nkiryanov/oraweb/internal/metrics"
)

// Route is the ServeMux pattern matched the request, so it has to wrap the mux without cloning request
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			inFlight := m.InFlight.WithLabelValues(r.Method)
			inFlight.Inc()
			defer inFlight.Dec()

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(sw.status)

			m.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			m.RequestsDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		})
	}
}
