package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// FloodLimitConfig caps raw request throughput per client address. This sits
// in front of the per-key sliding-window quotas and only catches floods.
type FloodLimitConfig struct {
	RequestsPerMinute int
}

// DefaultFloodLimit allows 120 requests per minute per address, well above
// every per-key quota so it never interferes with normal clients.
func DefaultFloodLimit() FloodLimitConfig {
	return FloodLimitConfig{
		RequestsPerMinute: 120,
	}
}

// FloodLimitByIP creates a middleware that rate limits requests by client IP
func FloodLimitByIP(config FloodLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":"rate_limit_exceeded","message":"Rate limit exceeded"}`))
		}),
	)
}
