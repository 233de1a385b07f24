package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Per-endpoint request budgets within the rate-limit window. Matching is the
// expensive path and gets the tighter budget; reads get twice that. Health
// probes are never limited.
const (
	matchRateLimit  = 30
	readRateLimit   = 60
	rateLimitWindow = time.Minute
)

// RateLimiter enforces a sliding-window request budget per client IP. One
// limiter guards one endpoint, so budgets are independent across routes.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window from
// each client IP.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Wrap guards next with the limiter. Over-budget requests are answered with
// 429 and a Retry-After header naming the seconds until the window frees up.
func (l *RateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retryAfter, ok := l.allow(clientIP(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "rate_limited", nil)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// allow records a request from key and reports whether it fits the budget.
// When it does not, the second return is the Retry-After value in seconds.
func (l *RateLimiter) allow(key string) (int, bool) {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.hits[key]
	for len(recent) > 0 && recent[0].Before(cutoff) {
		recent = recent[1:]
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		retryAfter := int(recent[0].Sub(cutoff) / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		return retryAfter, false
	}

	l.hits[key] = append(recent, now)
	return 0, true
}

// clientIP extracts the remote host, ignoring the ephemeral port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
