// Package health exposes liveness and background job status.
package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/pkg/cron"
	pkgredis "github.com/stockdesk/server/internal/pkg/redis"
	"github.com/stockdesk/server/internal/pkg/response"
)

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, rc *pkgredis.Client, sched *cron.Scheduler) {
	rg.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.PingContext(c.Request.Context()) == nil
		redisOK := rc.Raw().Ping(c.Request.Context()).Err() == nil

		status := "ok"
		code := http.StatusOK
		if !dbOK || !redisOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbOK,
			"redis":    redisOK,
		})
	})

	cronGroup := rg.Group("/health/cron")
	{
		cronGroup.GET("", func(c *gin.Context) {
			response.OK(c, sched.List())
		})

		cronGroup.POST("/run/:name", func(c *gin.Context) {
			if err := sched.Run(c.Request.Context(), c.Param("name")); err != nil {
				response.NotFoundMsg(c, err.Error())
				return
			}
			response.OK(c, gin.H{"message": "job finished"})
		})
	}
}
