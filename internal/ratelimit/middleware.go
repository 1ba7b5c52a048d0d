package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/kz4killua/wikirec/internal/http/response"
)

// KeyFunc extracts the rate limit key from a request.
type KeyFunc func(r *http.Request) string

// ByRemoteIP keys requests by client address. Put chi's RealIP middleware in
// front so proxied requests are keyed by the original client.
func ByRemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects requests over the limit with 429 and an error envelope.
func Middleware(krl *KeyedRateLimiter, keyFn KeyFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	retryAfter := "1"
	if krl.limit > 0 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / float64(krl.limit))))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if krl.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn("rate limit exceeded",
				slog.String("key", key),
				slog.String("path", r.URL.Path))

			w.Header().Set("Retry-After", retryAfter)
			response.TooManyRequests(w, "too many requests, slow down", logger)
		})
	}
}
