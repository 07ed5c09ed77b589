package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockdesk/server/internal/testutil"
)

func TestIdempotenceRejectsInFlightDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, _ := testutil.Redis(t)

	inside := make(chan struct{})
	release := make(chan struct{})
	r := gin.New()
	r.Use(Idempotence(rdb, zap.NewNop()))
	r.POST("/items", func(c *gin.Context) {
		if c.Query("block") == "1" {
			close(inside)
			<-release
		}
		c.Status(http.StatusCreated)
	})

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/items?block=1", strings.NewReader(`{"name":"Mug"}`)))
		close(done)
	}()
	<-inside

	dup := httptest.NewRecorder()
	r.ServeHTTP(dup, httptest.NewRequest(http.MethodPost, "/items?block=1", strings.NewReader(`{"name":"Mug"}`)))
	assert.Equal(t, http.StatusConflict, dup.Code)

	other := httptest.NewRecorder()
	r.ServeHTTP(other, httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"Cap"}`)))
	assert.Equal(t, http.StatusCreated, other.Code)

	close(release)
	<-done
	assert.Equal(t, http.StatusCreated, first.Code)

	again := httptest.NewRecorder()
	r.ServeHTTP(again, httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"Mug"}`)))
	assert.Equal(t, http.StatusCreated, again.Code, "completed submissions may be repeated")
}

func TestIdempotenceIgnoresReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, mr := testutil.Redis(t)

	r := gin.New()
	r.Use(Idempotence(rdb, zap.NewNop()))
	r.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, mr.Keys())
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, _ := testutil.Redis(t)

	r := gin.New()
	r.Use(RateLimit(rdb, 2, zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	require.Len(t, codes, 5)
	// Five requests span at most two one-second windows of two each.
	tooMany := 0
	for _, code := range codes {
		if code == http.StatusTooManyRequests {
			tooMany++
		}
	}
	assert.GreaterOrEqual(t, tooMany, 1)
	assert.Equal(t, http.StatusOK, codes[0])
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, mr := testutil.Redis(t)

	r := gin.New()
	r.Use(RateLimit(rdb, 0, zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, mr.Keys())
}
