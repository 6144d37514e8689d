package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

// RateLimit allows limit requests per client IP per window for one scope.
// Store errors let the request through.
func RateLimit(store cache.Store, scope string, limit int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			client := clientIP(r)
			count, err := store.Incr(r.Context(), cache.RateLimitKey(scope, client), window)
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err), zap.String("scope", scope))
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				logger.Warn("Rate limit exceeded",
					zap.String("scope", scope),
					zap.String("client", client),
					zap.Int64("count", count))
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				utils.ResponseTooManyRequests(w, "Too many requests, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects chi's RealIP to have rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
