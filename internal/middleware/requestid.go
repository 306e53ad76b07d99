package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// rpcOperation maps an RPC route to the short operation name used in a
// request ID, so a grep over logs for "challenge-" finds every
// CreateAuthenticationChallenge call without needing the path column.
func rpcOperation(path string) string {
	name := strings.TrimPrefix(path, "/v1/")
	if name == path || name == "" {
		return "rpc"
	}
	return name
}

// RequestID assigns each request an ID of the form "<operation>-<uuid>"
// (e.g. "challenge-3fa8…"), honoring an inbound X-Request-ID header
// verbatim if the caller already supplied one (a retried client call should
// keep its original ID across hops). The operation prefix ties the ID back
// to which of spec.md §6's three RPC methods produced it, which a bare
// random ID would not.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = rpcOperation(r.URL.Path) + "-" + uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), requestIDKey, requestID)
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID extracts the request ID stashed by RequestID, for use by
// downstream logging/metrics middleware and by handlers that want to
// correlate a log line with the RPC call that produced it.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
