package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/planejatrip/planejatrip-backend/errors"
)

// AuthRateLimiter throttles authentication endpoints per client IP using a
// Redis counter with a fixed window. Redis being unavailable never blocks
// the request.
func AuthRateLimiter(redisClient *redis.Client, requestsPerWindow int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:auth:%s", c.ClientIP())

		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)

		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			c.Next()
			return
		}

		count := incr.Val()
		if count > int64(requestsPerWindow) {
			ttl, err := redisClient.TTL(c.Request.Context(), key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}

			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", requestsPerWindow))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))

			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", int(ttl.Seconds())))
			c.Abort()
			return
		}

		remaining := requestsPerWindow - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", requestsPerWindow))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		c.Next()
	}
}
