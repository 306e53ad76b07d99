package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/example/zkp-chaum-pedersen/internal/rpc"
)

// Recovery catches panics in downstream handlers and reports them through
// the same {"code","message"} envelope internal/rpc's own error paths use
// (CodeInternal), rather than a bare http.Error string a caller parsing
// every other response as JSON would choke on. Arithmetic in internal/group
// never panics given valid parsed inputs (spec.md §7); this is a last line
// of defense for anything else.
func Recovery(logger zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Str("request_id", GetRequestID(r.Context())).
						Interface("panic", err).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")
					rpc.WriteError(w, http.StatusInternalServerError, rpc.CodeInternal, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
