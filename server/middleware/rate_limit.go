package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RateLimit allows limit requests per window for each caller and route, counted in Redis
func RateLimit(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.ClientIP()
		if accountID, ok := AccountID(c); ok {
			caller = fmt.Sprintf("%d", accountID)
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), caller)

		ctx := c.Request.Context()
		count, err := countRequest(ctx, redisClient, key, window)
		if err != nil {
			log.WithError(err).WithField("key", key).Error("Rate limit check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"kind": "internal", "code": "rate_limit_unavailable", "message": "rate limit check failed"},
			})
			return
		}

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"kind": "insufficient_resource", "code": "rate_limited", "message": "rate limit exceeded"},
			})
			return
		}

		c.Next()
	}
}

// countRequest increments the counter and sets its window in one transaction. EXPIRE NX only
// applies to a key without a TTL, so a counter never outlives its window.
func countRequest(ctx context.Context, redisClient *redis.Client, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
