package middleware

import (
	"net/http"
	"time"

	"github.com/mmynk/minishop/internal/metrics"
)

// Metrics records request counts and latency per ServeMux pattern. It must
// wrap the mux itself so the matched pattern is set on the request when the
// handler returns.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, r.Method, rec.status, time.Since(start).Seconds())
		})
	}
}
