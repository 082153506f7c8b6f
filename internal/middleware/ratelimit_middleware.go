package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxLimiters bounds memory; the least recently seen clients are evicted.
const maxLimiters = 10000

// RateLimiter keeps one token bucket per client, keyed by user id when
// authenticated and by IP otherwise.
type RateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	log      *logrus.Logger
}

func NewRateLimiter(requestsPerSecond float64, burst int, log *logrus.Logger) *RateLimiter {
	cache, _ := lru.New[string, *rate.Limiter](maxLimiters)
	return &RateLimiter{
		limiters: cache,
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		log:      log,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if l, ok := rl.limiters.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(rl.rate, rl.burst)
	// PeekOrAdd keeps the bucket another request may have just stored
	if prev, ok, _ := rl.limiters.PeekOrAdd(key, l); ok {
		return prev
	}
	return l
}

func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if id := UserID(c); id != 0 {
			key = fmt.Sprintf("user:%d", id)
		}

		if !rl.limiter(key).Allow() {
			rl.log.WithFields(logrus.Fields{
				"key":    key,
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("rate limit exceeded")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests, slow down"})
		}
		return c.Next()
	}
}
