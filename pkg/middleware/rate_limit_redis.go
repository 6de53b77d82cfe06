package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/logger"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every replica.
// Each client may make floor(rps*window)+burst requests per window. keyPrefix
// separates the counters of different routes. A nil client falls back to the
// in-process limiter. When Redis is unreachable the request is let through:
// losing feedback is worse than briefly losing the limit.
func RedisRateLimitMiddleware(client *redis.Client, keyPrefix string, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	return redisLimiter(client, keyPrefix, rps, burst, window, time.Now)
}

func redisLimiter(client *redis.Client, keyPrefix string, rps float64, burst int, window time.Duration, now func() time.Time) gin.HandlerFunc {
	windowSeconds := int64(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowed := int64(rps*float64(windowSeconds)) + int64(burst)
	ttl := time.Duration(windowSeconds+1) * time.Second
	retryAfter := strconv.FormatInt(windowSeconds, 10)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		bucket := now().Unix() / windowSeconds
		key := fmt.Sprintf("rl:%s:%s:%d", keyPrefix, clientKey(c), bucket)

		cnt, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warnf("rate limit check failed, allowing request: %v", err)
			c.Next()
			return
		}
		if cnt == 1 {
			_ = client.Expire(ctx, key, ttl).Err()
		}
		if cnt > allowed {
			rejectRateLimited(c, "redis", retryAfter)
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
