package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Logging logs the start and completion of every RPC call. It never logs
// request bodies — the wire fields include the response s and the
// commitment (r1, r2), which are protocol data, not secrets, but logging
// full bodies is still avoided here to keep log volume bounded.
func Logging(logger zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := GetRequestID(r.Context())

			logger.Info().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Msg("rpc request started")

			rw := NewResponseWriter(w)
			next.ServeHTTP(rw, r)

			logger.Info().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.StatusCode()).
				Str("code", rw.ProtocolCode()).
				Dur("duration", time.Since(start)).
				Msg("rpc request completed")
		})
	}
}
