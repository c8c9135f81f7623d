package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/ratelimit"
)

const msgTooManyRequests = "Too many requests, please try again later."

type RateLimiter struct {
	store     ratelimit.Store
	limit     int
	window    time.Duration
	keyPrefix string
	now       func() time.Time
	log       *logger.Logger
}

// NewRateLimiter counts requests per client IP under name, so several limiters
// can share one store.
func NewRateLimiter(store ratelimit.Store, name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:     store,
		limit:     limit,
		window:    window,
		keyPrefix: name + ":",
		now:       time.Now,
		log:       logger.New("ratelimit").With("limiter", name),
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := rl.now()
		clientIP := ClientIP(r)

		rec, err := rl.store.Hit(r.Context(), rl.keyPrefix+clientIP, rl.window, now)
		if err != nil {
			// fail open
			rl.log.Error("Rate limit store failed for %s: %v", clientIP, err)
			next.ServeHTTP(w, r)
			return
		}

		remaining := int64(rl.limit) - rec.Count
		if remaining < 0 {
			remaining = 0
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(ceilUnix(rec.ResetAt), 10))

		if rec.Count > int64(rl.limit) {
			retryAfter := retryAfterSeconds(rec.ResetAt, now)
			w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			rl.log.Warn("Rate limit exceeded for %s on %s %s", clientIP, r.Method, r.URL.Path)
			writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"error":      msgTooManyRequests,
				"retryAfter": retryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ceilUnix(t time.Time) int64 {
	sec := t.Unix()
	if t.Nanosecond() > 0 {
		sec++
	}
	return sec
}

// retryAfterSeconds is never below one so clients always back off.
func retryAfterSeconds(resetAt, now time.Time) int64 {
	secs := int64(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
