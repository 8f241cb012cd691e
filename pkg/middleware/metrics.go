package middleware

import (
	"net/http"
	"time"

	"bonus-tma/pkg/metrics"
)

// Metrics records request count and latency labelled by chi route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		done := metrics.RequestStarted()
		defer done()

		rw := wrapResponseWriter(w)
		start := time.Now()

		next.ServeHTTP(rw, r)

		metrics.ObserveHTTP(r.Method, routePattern(r), rw.statusCode, time.Since(start))
	})
}
