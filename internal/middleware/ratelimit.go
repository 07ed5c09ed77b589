package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockdesk/server/internal/pkg/redis"
	"github.com/stockdesk/server/internal/pkg/response"
)

const rateLimitWindow = time.Second

// RateLimit allows max requests per client IP and second. max <= 0 disables it.
// Redis failures let the request through.
func RateLimit(rdb *redis.Client, max int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		key := rdb.Key("rate_limit", fmt.Sprintf("%s:%d", ip, time.Now().Unix()))
		count, err := rdb.Incr(c.Request.Context(), key, rateLimitWindow+time.Second)
		if err != nil {
			log.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(max) {
			c.Header("Retry-After", "1")
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
