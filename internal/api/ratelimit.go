package api

import (
	"net/http"
	"time"

	"github.com/shelfwise/shelfwise-server/internal/http/response"
	"github.com/shelfwise/shelfwise-server/internal/ratelimit"
)

// Generation endpoints hit the model API on every request, so inbound traffic
// is throttled per client IP.
const (
	generateRatePerMinute = 20
	generateBurst         = 5
)

// newGenerateLimiter creates the rate limiter for model-backed endpoints.
func newGenerateLimiter() *ratelimit.KeyedRateLimiter {
	rps := float64(generateRatePerMinute) / time.Minute.Seconds()
	return ratelimit.New(rps, generateBurst)
}

// rateLimitMiddleware rate limits requests by client IP.
// Returns 429 Too Many Requests when the limit is exceeded.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := getClientIP(r)

		if !s.generateLimiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", r.URL.Path,
			)
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in the chain.
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
