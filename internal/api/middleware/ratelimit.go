package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rgummadi/vidscribe/internal/api/response"
	"github.com/rgummadi/vidscribe/internal/cache"
)

const (
	defaultRequestsPerWindow = 100
	defaultWindow            = 15 * time.Minute
)

// RateLimit provides fixed-window rate limiting per client address via Redis.
type RateLimit struct {
	cache             cache.Cache
	requestsPerWindow int
	window            time.Duration
}

// NewRateLimit creates a new RateLimit middleware.
func NewRateLimit(c cache.Cache, requestsPerWindow int, window time.Duration) *RateLimit {
	if requestsPerWindow <= 0 {
		requestsPerWindow = defaultRequestsPerWindow
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &RateLimit{cache: c, requestsPerWindow: requestsPerWindow, window: window}
}

// Limit applies rate limiting keyed by the client's address.
func (rl *RateLimit) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := cache.RateLimitKey(clientAddr(r))
		count, err := rl.cache.IncrWithExpiry(r.Context(), key, rl.window)
		if err != nil {
			// On Redis error, allow the request (fail open)
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.requestsPerWindow - int(count)
		if remaining < 0 {
			remaining = 0
		}
		resetTime := time.Now().Add(rl.window).Unix()

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.requestsPerWindow))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))

		if count > int64(rl.requestsPerWindow) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			response.Error(w, http.StatusTooManyRequests,
				"Too many requests from this IP, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
