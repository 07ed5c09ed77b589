package item

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockdesk/server/internal/fieldgroup"
	"github.com/stockdesk/server/internal/gridfilter"
	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/modules/inventory/groupform"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/response"
	"github.com/stockdesk/server/internal/pkg/sanitize"
	"github.com/stockdesk/server/internal/pkg/validation"
)

var ErrDuplicateSKU = errors.New("sku already exists")

var columns = gridfilter.Columns[models.ItemModel]{
	"name": gridfilter.TextColumn(func(m models.ItemModel) []string { return gridfilter.One(m.Name) }),
	"sku":  gridfilter.TextColumn(func(m models.ItemModel) []string { return gridfilter.One(m.SKU) }),
	"category": gridfilter.TextColumn(func(m models.ItemModel) []string {
		if m.Category == nil {
			return nil
		}
		return gridfilter.One(m.Category.Name)
	}),
	"variantNames":   gridfilter.TextColumn(func(m models.ItemModel) []string { return models.GroupNames(m.Variants) }),
	"variantOptions": gridfilter.TextColumn(func(m models.ItemModel) []string { return models.GroupOptions(m.Variants) }),
	"quantity":       gridfilter.NumberColumn(func(m models.ItemModel) []float64 { return gridfilter.One(float64(m.Quantity)) }),
	"price":          gridfilter.NumberColumn(func(m models.ItemModel) []float64 { return gridfilter.One(m.Price) }),
}

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger.Named("ItemService")}
}

func (s *Service) base() *gorm.DB {
	return s.db.Model(&models.ItemModel{}).Preload("Category").Preload("Supplier")
}

// List pages items. With a filter model the whole table is loaded, filtered
// in memory and paged afterwards.
func (s *Service) List(q pagination.Query, filter gridfilter.Model) ([]models.ItemModel, response.Pagination, error) {
	tx := s.base().Order("created_at DESC")
	if len(filter) == 0 {
		var items []models.ItemModel
		pag, err := pagination.Paginate(tx, q, &items)
		return items, pag, err
	}

	var all []models.ItemModel
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

func (s *Service) GetByID(id string) (*models.ItemModel, error) {
	var m models.ItemModel
	if err := s.base().First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Variants returns the persisted variants in the shape the edit form seeds
// its collection from. nil means the item does not exist.
func (s *Service) Variants(id string) ([]fieldgroup.Seed, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return nil, err
	}
	return models.Seeds(m.Variants), nil
}

func (s *Service) Create(in *Input) (*models.ItemModel, error) {
	m := models.ItemModel{}
	if err := s.apply(&m, in); err != nil {
		return nil, err
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.logger.Info("item created", zap.String("id", m.ID), zap.Int("variants", len(m.Variants)))
	return s.GetByID(m.ID)
}

// Update replaces every field of the item. A nil item means it does not exist.
func (s *Service) Update(id string, in *Input) (*models.ItemModel, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return m, err
	}
	if err := s.apply(m, in); err != nil {
		return nil, err
	}
	m.Category, m.Supplier = nil, nil
	if err := s.db.Omit(clause.Associations).Save(m).Error; err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.ItemModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// apply validates in and copies it onto m.
func (s *Service) apply(m *models.ItemModel, in *Input) error {
	errs := validation.Errors{}

	name := sanitize.Text(in.Name)
	if name == "" {
		errs.Add("name", "name is required")
	}
	sku := sanitize.Text(in.SKU)
	if in.Quantity < 0 {
		errs.Add("quantity", "quantity must not be negative")
	}
	if in.Price < 0 {
		errs.Add("price", "price must not be negative")
	}
	if in.LowStockThreshold < 0 {
		errs.Add("low_stock_threshold", "low stock threshold must not be negative")
	}

	categoryID, err := s.reference(&models.CategoryModel{}, in.CategoryID, "category_id", "category does not exist", errs)
	if err != nil {
		return err
	}
	supplierID, err := s.reference(&models.SupplierModel{}, in.SupplierID, "supplier_id", "supplier does not exist", errs)
	if err != nil {
		return err
	}

	variants := groupform.Resolve(fieldgroup.KindVariant, in.Variants, errs)
	if err := errs.Err(); err != nil {
		return err
	}

	if sku != "" {
		var n int64
		tx := s.db.Model(&models.ItemModel{}).Where("LOWER(sku) = LOWER(?)", sku)
		if m.ID != "" {
			tx = tx.Where("id <> ?", m.ID)
		}
		if err := tx.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateSKU
		}
	}

	m.Name = name
	m.SKU = sku
	m.Description = sanitize.Text(in.Description)
	m.CategoryID = categoryID
	m.SupplierID = supplierID
	m.Quantity = in.Quantity
	m.Price = in.Price
	m.LowStockThreshold = in.LowStockThreshold
	m.HasVariants = len(variants) > 0
	m.Variants = variants
	return nil
}

// reference checks that an optional foreign key points at an existing row.
func (s *Service) reference(model interface{}, id *string, field, msg string, errs validation.Errors) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*id)
	var n int64
	if err := s.db.Model(model).Where("id = ?", v).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		errs.Add(field, msg)
	}
	return &v, nil
}
