package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/example/zkp-chaum-pedersen/internal/config"
	"github.com/example/zkp-chaum-pedersen/internal/rpc"
)

// RateLimit applies an independent token bucket per RPC route rather than
// one bucket shared across the whole surface: Register happens once per
// user while CreateAuthenticationChallenge and VerifyAuthentication fire on
// every login attempt, so a single global bucket would let a login storm
// starve registration traffic (or the reverse). cfg sizes every route's
// bucket identically; UserRateLimit below layers a second, per-user bucket
// on top of the challenge route specifically.
func RateLimit(cfg config.RateLimitConfig) Middleware {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(path string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[path]
		if !ok {
			l = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
			limiters[path] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiterFor(r.URL.Path).Allow() {
				rpc.WriteError(w, http.StatusTooManyRequests, rpc.CodeResourceExhausted, "rate limit exceeded for "+r.URL.Path)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserRateLimit applies a per-user token bucket, keyed by the "user" query
// parameter or JSON field extracted by keyFunc. This guards
// CreateAuthenticationChallenge specifically: it is the one method an
// attacker can hammer per victim user to force AttemptState races
// (spec.md §5). It is a transport-edge mitigation layered on top of the
// core protocol, which has none (spec.md §1's Non-goals describe the
// protocol core, not this HTTP edge), grounded on
// 50-mini-service-all-features's SolutionUserRateLimiter.
func UserRateLimit(requestsPerSecond float64, burst int, keyFunc func(*http.Request) string) Middleware {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	getLimiter := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
			limiters[key] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key != "" && !getLimiter(key).Allow() {
				rpc.WriteError(w, http.StatusTooManyRequests, rpc.CodeResourceExhausted, "too many requests for this user")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
