package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockdesk/server/internal/fieldgroup"
	"github.com/stockdesk/server/internal/gridfilter"
	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/response"
	"github.com/stockdesk/server/internal/pkg/sanitize"
	"github.com/stockdesk/server/internal/pkg/validation"
)

// lineKind labels order lines in duplicate messages.
const lineKind fieldgroup.Kind = "item"

var (
	// ErrLocked is returned when a completed order is changed or removed.
	ErrLocked = errors.New("order has a recorded sale")
)

var columns = gridfilter.Columns[models.OrderModel]{
	"itemNames":  gridfilter.TextColumn(func(m models.OrderModel) []string { return m.ItemNames() }),
	"quantities": gridfilter.NumberColumn(func(m models.OrderModel) []float64 { return m.Quantities() }),
	"prices":     gridfilter.NumberColumn(func(m models.OrderModel) []float64 { return m.Prices() }),
	"client": gridfilter.TextColumn(func(m models.OrderModel) []string {
		if m.Client == nil {
			return nil
		}
		return gridfilter.One(m.Client.Name)
	}),
	"status": gridfilter.TextColumn(func(m models.OrderModel) []string { return gridfilter.One(string(m.Status)) }),
	"total":  gridfilter.NumberColumn(func(m models.OrderModel) []float64 { return gridfilter.One(m.Total) }),
}

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger.Named("OrderService")}
}

func (s *Service) base() *gorm.DB {
	return s.db.Model(&models.OrderModel{}).Preload("Client")
}

// List pages orders, newest first. A filter model is applied in memory
// before paging because line cells are stored as JSON.
func (s *Service) List(q pagination.Query, filter gridfilter.Model) ([]models.OrderModel, response.Pagination, error) {
	tx := s.base().Order("ordered_at DESC")
	if len(filter) == 0 {
		var items []models.OrderModel
		pag, err := pagination.Paginate(tx, q, &items)
		return items, pag, err
	}

	var all []models.OrderModel
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

func (s *Service) GetByID(id string) (*models.OrderModel, error) {
	var m models.OrderModel
	if err := s.base().First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *Service) Create(dto *OrderDTO) (*models.OrderModel, error) {
	m := models.OrderModel{Status: models.OrderPending, OrderedAt: time.Now()}
	if err := s.apply(&m, dto); err != nil {
		return nil, err
	}
	if err := s.db.Omit(clause.Associations).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.logger.Info("order created", zap.String("id", m.ID), zap.Int("lines", len(m.Lines)), zap.Float64("total", m.Total))
	return s.GetByID(m.ID)
}

// Update replaces client, lines and notes. Completed orders are locked.
func (s *Service) Update(id string, dto *OrderDTO) (*models.OrderModel, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return m, err
	}
	if m.Status == models.OrderCompleted {
		return nil, ErrLocked
	}
	if err := s.apply(m, dto); err != nil {
		return nil, err
	}
	m.Client = nil
	if err := s.db.Omit(clause.Associations).Save(m).Error; err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return s.GetByID(id)
}

// SetStatus moves an order between pending, shipped and cancelled.
// Completion only happens by recording a sale.
func (s *Service) SetStatus(id string, status models.OrderStatus) (*models.OrderModel, error) {
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return m, err
	}
	if m.Status == models.OrderCompleted {
		return nil, ErrLocked
	}
	if err := s.db.Model(&models.OrderModel{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, err
	}
	m.Status = status
	return m, nil
}

func (s *Service) Delete(id string) (bool, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return false, err
	}
	if m.Status == models.OrderCompleted {
		return false, ErrLocked
	}
	res := s.db.Delete(&models.OrderModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func checkStatus(status models.OrderStatus) error {
	if !status.Valid() {
		return validation.Field("status", fmt.Sprintf("unknown status %q", status))
	}
	if status == models.OrderCompleted {
		return validation.Field("status", "orders are completed by recording a sale")
	}
	return nil
}

// apply validates dto and copies it onto m.
func (s *Service) apply(m *models.OrderModel, dto *OrderDTO) error {
	errs := validation.Errors{}

	clientID := strings.TrimSpace(dto.ClientID)
	if clientID == "" {
		errs.Add("client_id", "client is required")
	} else {
		var n int64
		if err := s.db.Model(&models.ClientModel{}).Where("id = ?", clientID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			errs.Add("client_id", "client does not exist")
		}
	}

	if dto.Status != "" {
		if err := checkStatus(dto.Status); err != nil {
			v, _ := validation.As(err)
			errs.Merge(v.Fields)
		}
	}

	lines, err := s.resolveLines(dto.Lines, errs)
	if err != nil {
		return err
	}
	if err := errs.Err(); err != nil {
		return err
	}

	m.ClientID = clientID
	if dto.Status != "" {
		m.Status = dto.Status
	}
	m.Lines = lines
	m.Total = models.LineTotal(lines)
	m.Notes = sanitize.Text(dto.Notes)
	if dto.OrderedAt != nil {
		m.OrderedAt = *dto.OrderedAt
	}
	return nil
}

// resolveLines looks up every line's item and captures its name and price.
// Lines are keyed 1-based, like field groups: "lines.2.item_id".
func (s *Service) resolveLines(in []LineDTO, errs validation.Errors) ([]models.OrderLine, error) {
	if len(in) == 0 {
		errs.Add("lines", "at least one line is required")
		return nil, nil
	}
	if len(in) > fieldgroup.MaxGroups {
		errs.Add("lines", fmt.Sprintf("at most %d lines may be submitted", fieldgroup.MaxGroups))
		return nil, nil
	}

	ids := make([]string, 0, len(in))
	for _, l := range in {
		if id := strings.TrimSpace(l.ItemID); id != "" {
			ids = append(ids, id)
		}
	}
	var items []models.ItemModel
	if len(ids) > 0 {
		if err := s.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[string]models.ItemModel, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	seen := make(map[string]int, len(in))
	for _, l := range in {
		seen[strings.TrimSpace(l.ItemID)]++
	}

	out := make([]models.OrderLine, 0, len(in))
	for i, l := range in {
		n := i + 1
		itemKey := fmt.Sprintf("lines.%d.item_id", n)
		id := strings.TrimSpace(l.ItemID)
		it, ok := byID[id]

		switch {
		case id == "":
			errs.Add(itemKey, "item is required")
		case !ok:
			errs.Add(itemKey, "item does not exist")
		case seen[id] > 1:
			errs.Add(itemKey, fieldgroup.DuplicateMessage(it.Name, lineKind))
		}
		if l.Quantity <= 0 {
			errs.Add(fmt.Sprintf("lines.%d.quantity", n), "quantity must be at least 1")
		}
		price := it.Price
		if l.Price != nil {
			price = *l.Price
		}
		if price < 0 {
			errs.Add(fmt.Sprintf("lines.%d.price", n), "price must not be negative")
		}
		out = append(out, models.OrderLine{ItemID: id, Name: it.Name, Quantity: l.Quantity, Price: price})
	}
	return out, nil
}
