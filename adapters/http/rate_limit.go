package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/pkg/logger"
)

// RateLimitMiddleware is a fixed window counter in Redis, keyed by principal
// when authenticated and by client IP otherwise. Redis failures let the
// request through.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		caller := c.ClientIP()
		if id, ok := GetPrincipalIDFromGinContext(c); ok {
			caller = id.String()
		}
		key := fmt.Sprintf("vidshelf:rate_limit:%s:%s", c.FullPath(), caller)

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("Rate limit check failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited", "message": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
