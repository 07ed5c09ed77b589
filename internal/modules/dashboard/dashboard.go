// Package dashboard serves the inventory summary shown on the landing page.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/pkg/redis"
	"github.com/stockdesk/server/internal/pkg/response"
)

// SalesWindow is how far back the sales figures reach.
const SalesWindow = 30 * 24 * time.Hour

type Counts struct {
	Items      int64 `json:"items"`
	LowStock   int64 `json:"low_stock"`
	Categories int64 `json:"categories"`
	Suppliers  int64 `json:"suppliers"`
	Clients    int64 `json:"clients"`
}

type SalesSummary struct {
	Count int64     `json:"count"`
	Total float64   `json:"total"`
	Since time.Time `json:"since"`
}

type Summary struct {
	Counts      Counts                       `json:"counts"`
	Orders      map[models.OrderStatus]int64 `json:"orders"`
	Sales       SalesSummary                 `json:"sales"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

type Service struct {
	db     *gorm.DB
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewService caches summaries in rdb for ttl. A nil rdb or non-positive ttl
// disables the cache.
func NewService(db *gorm.DB, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, rdb: rdb, ttl: ttl, logger: logger.Named("DashboardService"), now: time.Now}
}

func (s *Service) cacheKey() string {
	return s.rdb.Key("dashboard", "summary")
}

func (s *Service) cacheEnabled() bool {
	return s.rdb != nil && s.ttl > 0
}

// Get returns the cached summary, building it on a miss.
func (s *Service) Get(ctx context.Context) (*Summary, error) {
	if s.cacheEnabled() {
		raw, err := s.rdb.Get(ctx, s.cacheKey())
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if raw != "" {
			var cached Summary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}
	return s.refresh(ctx)
}

// Warm rebuilds the cached summary.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.refresh(ctx)
	return err
}

func (s *Service) refresh(ctx context.Context) (*Summary, error) {
	summary, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	if s.cacheEnabled() {
		data, err := json.Marshal(summary)
		if err == nil {
			err = s.rdb.Set(ctx, s.cacheKey(), data, s.ttl)
		}
		if err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// Build runs every dashboard query concurrently.
func (s *Service) Build(ctx context.Context) (*Summary, error) {
	now := s.now()
	out := &Summary{
		Orders:      make(map[models.OrderStatus]int64),
		Sales:       SalesSummary{Since: now.Add(-SalesWindow)},
		GeneratedAt: now,
	}

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int64, model interface{}, where ...interface{}) {
		g.Go(func() error {
			q := s.db.WithContext(ctx).Model(model)
			if len(where) > 0 {
				q = q.Where(where[0], where[1:]...)
			}
			return q.Count(dst).Error
		})
	}

	count(&out.Counts.Items, &models.ItemModel{})
	count(&out.Counts.LowStock, &models.ItemModel{}, "quantity <= low_stock_threshold")
	count(&out.Counts.Categories, &models.CategoryModel{})
	count(&out.Counts.Suppliers, &models.SupplierModel{})
	count(&out.Counts.Clients, &models.ClientModel{})

	var statusRows []struct {
		Status models.OrderStatus
		N      int64
	}
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.OrderModel{}).
			Select("status, COUNT(*) AS n").
			Group("status").
			Scan(&statusRows).Error
	})

	var sales struct {
		N     int64
		Total float64
	}
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.SaleModel{}).
			Select("COUNT(*) AS n, COALESCE(SUM(amount), 0) AS total").
			Where("sold_at >= ?", out.Sales.Since).
			Scan(&sales).Error
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}

	for _, st := range []models.OrderStatus{models.OrderPending, models.OrderShipped, models.OrderCompleted, models.OrderCancelled} {
		out.Orders[st] = 0
	}
	for _, row := range statusRows {
		out.Orders[row.Status] = row.N
	}
	out.Sales.Count = sales.N
	out.Sales.Total = sales.Total
	return out, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.get)
}

// GET /dashboard
func (h *Handler) get(c *gin.Context) {
	summary, err := h.svc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, summary)
}
