package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockdesk/server/internal/pkg/redis"
	"github.com/stockdesk/server/internal/pkg/response"
)

const (
	idempotenceHeader = "X-Idempotence-Key"
	// idempotenceTTL bounds how long a crashed request can keep its key.
	idempotenceTTL = 60 * time.Second
)

// Idempotence rejects a POST, PUT or PATCH while an identical one is still in
// flight. The key is released once the first request finishes, so repeating a
// completed submission is allowed.
func Idempotence(rdb *redis.Client, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil {
			response.BadRequest(c, "unreadable request body")
			return
		}

		redisKey := rdb.Key("idempotence", key)
		ctx := c.Request.Context()

		acquired, err := rdb.SetNX(ctx, redisKey, "1", idempotenceTTL)
		if err != nil {
			log.Warn("idempotence check unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			response.Conflict(c, "an identical request is already being processed")
			return
		}

		defer func() {
			// The request context may already be cancelled here.
			if _, err := rdb.Del(context.WithoutCancel(ctx), redisKey); err != nil {
				log.Warn("release idempotence key", zap.Error(err))
			}
		}()
		c.Next()
	}
}

// resolveIdempotenceKey prefers the client-supplied header and falls back to a
// hash of method, URL, body and client.
func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}

	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + c.Request.UserAgent() + "|" + c.ClientIP()
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
