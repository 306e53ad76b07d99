package middleware

import (
	"net/http"
	"time"

	"github.com/example/zkp-chaum-pedersen/internal/metrics"
)

// Metrics records per-request Prometheus metrics, keyed by RPC method (the
// request path) and the protocol-level outcome Code carried in the JSON
// response body (spec.md §7), not the raw HTTP status — "how many
// UNAUTHENTICATED verifies" is the number an operator actually wants, and
// multiple Codes can share one HTTP status.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := NewResponseWriter(w)

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()

			m.RPCRequestsTotal.WithLabelValues(r.URL.Path, rw.ProtocolCode()).Inc()
			m.RPCRequestDuration.WithLabelValues(r.URL.Path).Observe(duration)
		})
	}
}
