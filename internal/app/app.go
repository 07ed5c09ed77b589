package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/config"
	"github.com/stockdesk/server/internal/database"
	"github.com/stockdesk/server/internal/middleware"
	pkgcron "github.com/stockdesk/server/internal/pkg/cron"
	pkgredis "github.com/stockdesk/server/internal/pkg/redis"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	rc     *pkgredis.Client
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New initializes the application: runtime settings → DB → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	app := build(logger, cfg, db, rc)
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.sched.Start(ctx)
	return app, nil
}

// build wires the router around already opened backends.
func build(logger *zap.Logger, cfg *config.AppConfig, db *gorm.DB, rc *pkgredis.Client) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	app := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		rc:     rc,
		logger: logger,
		cancel: func() {},
		sched:  pkgcron.New(logger),
	}
	app.registerRoutes()
	return app
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and closes the backends.
func (a *App) Shutdown() {
	a.cancel()
	a.sched.Wait()
	if err := a.rc.Close(); err != nil {
		a.logger.Warn("redis close failed", zap.Error(err))
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.logger.Warn("database close failed", zap.Error(err))
		}
	}
}
