package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/edulytics/edulytics-server/internal/api/respond"
	"github.com/edulytics/edulytics-server/internal/observability"
	"github.com/edulytics/edulytics-server/internal/ratelimit"
)

const MsgTooManyAttempts = "Too many attempts, try again later"

// RateLimit allows limit requests per client IP per window on the wrapped
// route. A nil limiter or a non-positive limit disables it.
func RateLimit(limiter ratelimit.Limiter, route string, limit int, window time.Duration, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := limiter.Allow(r.Context(), route+":"+clientIP(r), limit, window)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				metrics.RecordRateLimitHit(route)
				retryAfter := decision.RetryAfter(time.Now())
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter/time.Second)))
				respond.Error(w, http.StatusTooManyRequests, MsgTooManyAttempts)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the host part of RemoteAddr, which chi's RealIP middleware has
// already rewritten from forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}
	return "ip:" + host
}
