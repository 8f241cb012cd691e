package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// idle limiters are swept once the map grows past this size
const limiterSweepThreshold = 10000

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per member, or per client IP for anonymous requests.
type RateLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration
	logger   *zap.Logger
}

func NewRateLimiter(requestsPerSecond, burst int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		idle:     10 * time.Minute,
		logger:   logger,
	}
}

func (rl *RateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[key]
	if !exists {
		if len(rl.limiters) >= limiterSweepThreshold {
			rl.sweep(now)
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

// sweep drops limiters not used within the idle window. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.idle {
			delete(rl.limiters, key)
		}
	}
}

// Handler returns the rate limiting middleware handler
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.rate <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := clientIP(r)
		if user, ok := utils.GetUserFromContext(r.Context()); ok {
			key = "user:" + user.ID.String()
		}

		if !rl.getLimiter(key, time.Now()).Allow() {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
			)
			w.Header().Set("Retry-After", "1")
			utils.ResponseTooManyRequests(w, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
