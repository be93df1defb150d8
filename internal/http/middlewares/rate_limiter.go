package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Fixed-window in-process limiter. Good enough for a single instance;
// a shared deployment would move the counters to Redis.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	keyFn   func(*gin.Context) string
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count      int
	windowEnds time.Time
}

func NewRateLimiter(limit int, window time.Duration, keyFn func(*gin.Context) string) *RateLimiter {
	if keyFn == nil {
		keyFn = KeyByIP
	}

	return &RateLimiter{
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

func KeyByUserOrIP(c *gin.Context) string {
	if id, ok := UserIDFromContext(c); ok && id != "" {
		return "u:" + id
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		key := rl.keyFn(c)

		rl.mu.Lock()
		b, ok := rl.buckets[key]
		now := rl.now()

		if !ok || now.After(b.windowEnds) {
			b = &bucket{windowEnds: now.Add(rl.window)}
			rl.buckets[key] = b
		}

		b.count++
		over := b.count > rl.limit
		retryAfter := b.windowEnds.Sub(now)
		rl.mu.Unlock()

		if over {
			c.Header("Retry-After", itoa(int(retryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests, slow down",
				},
			})
			return
		}

		c.Next()
	}
}

func itoa(n int) string {
	if n <= 0 {
		return "1"
	}

	var buf [8]byte
	i := len(buf)

	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}
