package app

import (
	"github.com/gin-gonic/gin"

	"github.com/stockdesk/server/internal/fieldgroup"
	"github.com/stockdesk/server/internal/middleware"
	"github.com/stockdesk/server/internal/modules/dashboard"
	"github.com/stockdesk/server/internal/modules/forms/draft"
	"github.com/stockdesk/server/internal/modules/health"
	"github.com/stockdesk/server/internal/modules/inventory/category"
	"github.com/stockdesk/server/internal/modules/inventory/client"
	"github.com/stockdesk/server/internal/modules/inventory/item"
	"github.com/stockdesk/server/internal/modules/inventory/supplier"
	"github.com/stockdesk/server/internal/modules/sales/order"
	"github.com/stockdesk/server/internal/modules/sales/sale"
	"github.com/stockdesk/server/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	logger := a.logger

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(a.rc, a.cfg.RateLimit.MaxPerSecond, logger))
	r.Use(middleware.Idempotence(a.rc, logger))

	itemSvc := item.NewService(db, logger)
	categorySvc := category.NewService(db, logger)
	dashSvc := dashboard.NewService(db, a.rc, a.cfg.Dashboard.CacheTTL, logger)
	seeder := draft.SeederFunc(func(kind fieldgroup.Kind, id string) ([]fieldgroup.Seed, error) {
		if kind == fieldgroup.KindAttribute {
			return categorySvc.Attributes(id)
		}
		return itemSvc.Variants(id)
	})

	registerCronJobs(a.sched, db, dashSvc, a.cfg.Dashboard.CacheTTL, logger)

	api := r.Group(apiPrefix)
	api.GET("", func(c *gin.Context) {
		response.OK(c, gin.H{"name": "stockdesk", "version": "1.0.0"})
	})

	health.RegisterRoutes(api, db, a.rc, a.sched)
	item.NewHandler(itemSvc).RegisterRoutes(api)
	category.NewHandler(categorySvc).RegisterRoutes(api)
	supplier.NewHandler(supplier.NewService(db, logger)).RegisterRoutes(api)
	client.NewHandler(client.NewService(db, logger)).RegisterRoutes(api)
	order.NewHandler(order.NewService(db, logger)).RegisterRoutes(api)
	sale.NewHandler(sale.NewService(db, logger)).RegisterRoutes(api)
	draft.NewHandler(draft.NewService(a.rc, a.cfg.Drafts.TTL, seeder, logger)).RegisterRoutes(api)
	dashboard.NewHandler(dashSvc).RegisterRoutes(api)
}
