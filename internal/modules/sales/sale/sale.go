package sale

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockdesk/server/internal/gridfilter"
	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/response"
	"github.com/stockdesk/server/internal/pkg/validation"
)

var ErrAlreadySold = errors.New("a sale is already recorded for this order")

// SaleDTO records a sale. A nil amount takes the order total.
type SaleDTO struct {
	OrderID string     `json:"order_id" binding:"required"`
	Amount  *float64   `json:"amount"`
	SoldAt  *time.Time `json:"sold_at"`
}

type saleResponse struct {
	models.SaleModel
	ClientName string   `json:"client_name,omitempty"`
	ItemNames  []string `json:"item_names"`
}

func toResponse(m *models.SaleModel) saleResponse {
	r := saleResponse{SaleModel: *m, ItemNames: []string{}}
	if m.Order != nil {
		r.ItemNames = m.Order.ItemNames()
		if m.Order.Client != nil {
			r.ClientName = m.Order.Client.Name
		}
	}
	r.Order = nil
	return r
}

var columns = gridfilter.Columns[models.SaleModel]{
	"itemNames": gridfilter.TextColumn(func(m models.SaleModel) []string {
		if m.Order == nil {
			return nil
		}
		return m.Order.ItemNames()
	}),
	"amount": gridfilter.NumberColumn(func(m models.SaleModel) []float64 { return gridfilter.One(m.Amount) }),
	"client": gridfilter.TextColumn(func(m models.SaleModel) []string {
		if m.Order == nil || m.Order.Client == nil {
			return nil
		}
		return gridfilter.One(m.Order.Client.Name)
	}),
}

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger.Named("SaleService")}
}

func (s *Service) base() *gorm.DB {
	return s.db.Model(&models.SaleModel{}).Preload("Order").Preload("Order.Client")
}

func (s *Service) List(q pagination.Query, filter gridfilter.Model) ([]models.SaleModel, response.Pagination, error) {
	tx := s.base().Order("sold_at DESC")
	if len(filter) == 0 {
		var items []models.SaleModel
		pag, err := pagination.Paginate(tx, q, &items)
		return items, pag, err
	}

	var all []models.SaleModel
	if err := tx.Find(&all).Error; err != nil {
		return nil, response.Pagination{}, err
	}
	kept, err := gridfilter.Apply(all, filter, columns)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	page, pag := pagination.Slice(kept, q)
	return page, pag, nil
}

func (s *Service) GetByID(id string) (*models.SaleModel, error) {
	var m models.SaleModel
	if err := s.base().First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Create records the sale and completes its order in one transaction. The
// order row is locked so two sales cannot race for it.
func (s *Service) Create(dto *SaleDTO) (*models.SaleModel, error) {
	orderID := strings.TrimSpace(dto.OrderID)
	sale := models.SaleModel{OrderID: orderID, SoldAt: time.Now()}
	if dto.SoldAt != nil {
		sale.SoldAt = *dto.SoldAt
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.OrderModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validation.Field("order_id", "order does not exist")
		}
		if err != nil {
			return err
		}
		if order.Status == models.OrderCancelled {
			return validation.Field("order_id", "cancelled orders cannot be sold")
		}

		var n int64
		if err := tx.Model(&models.SaleModel{}).Where("order_id = ?", orderID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadySold
		}

		sale.Amount = order.Total
		if dto.Amount != nil {
			if *dto.Amount < 0 {
				return validation.Field("amount", "amount must not be negative")
			}
			sale.Amount = *dto.Amount
		}
		if err := tx.Omit(clause.Associations).Create(&sale).Error; err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		return tx.Model(&models.OrderModel{}).Where("id = ?", orderID).Update("status", models.OrderCompleted).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("sale recorded", zap.String("order", orderID), zap.Float64("amount", sale.Amount))
	return s.GetByID(sale.ID)
}

// Delete voids a sale; its order goes back to shipped.
func (s *Service) Delete(id string) (bool, error) {
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var m models.SaleModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return tx.Model(&models.OrderModel{}).Where("id = ?", m.OrderID).Update("status", models.OrderShipped).Error
	})
	return found, err
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/sales")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.DELETE("/:id", h.delete)
}

// GET /sales?page=&size=&filter=
func (h *Handler) list(c *gin.Context) {
	filter, err := gridfilter.ParseModel(c.Query("filter"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, pag, err := h.svc.List(pagination.FromContext(c), filter)
	if err != nil {
		if gridfilter.IsInvalid(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	out := make([]saleResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

// GET /sales/:id
func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "sale not found")
		return
	}
	response.OK(c, toResponse(m))
}

// POST /sales
func (h *Handler) create(c *gin.Context) {
	var dto SaleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrAlreadySold) {
			response.Conflict(c, err.Error())
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(m))
}

// DELETE /sales/:id
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "sale not found")
		return
	}
	response.NoContent(c)
}
