package category

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/fieldgroup"
	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/modules/inventory/groupform"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/response"
	"github.com/stockdesk/server/internal/pkg/sanitize"
	"github.com/stockdesk/server/internal/pkg/validation"
)

var ErrDuplicateName = errors.New("category name already exists")

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger.Named("CategoryService")}
}

func (s *Service) List(q pagination.Query) ([]models.CategoryModel, response.Pagination, error) {
	tx := s.db.Model(&models.CategoryModel{}).Order("name ASC")
	var items []models.CategoryModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// ItemCounts returns the number of items per category id.
func (s *Service) ItemCounts(ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		CategoryID string
		Count      int64
	}
	err := s.db.Model(&models.ItemModel{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IN ?", ids).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.CategoryID] = r.Count
	}
	return out, nil
}

func (s *Service) GetByID(id string) (*models.CategoryModel, error) {
	var m models.CategoryModel
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Attributes returns the persisted attributes as collection seeds. nil means
// the category does not exist.
func (s *Service) Attributes(id string) ([]fieldgroup.Seed, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return nil, err
	}
	return models.Seeds(m.Attributes), nil
}

func (s *Service) Create(in *Input) (*models.CategoryModel, error) {
	m := models.CategoryModel{}
	if err := s.apply(&m, in); err != nil {
		return nil, err
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.logger.Info("category created", zap.String("id", m.ID), zap.Int("attributes", len(m.Attributes)))
	return &m, nil
}

// Update replaces the category. A nil category means it does not exist.
func (s *Service) Update(id string, in *Input) (*models.CategoryModel, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return m, err
	}
	if err := s.apply(m, in); err != nil {
		return nil, err
	}
	if err := s.db.Save(m).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return m, nil
}

// Delete removes the category and detaches its items.
func (s *Service) Delete(id string) (bool, error) {
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.CategoryModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		if !found {
			return nil
		}
		return tx.Model(&models.ItemModel{}).Where("category_id = ?", id).Update("category_id", nil).Error
	})
	return found, err
}

func (s *Service) apply(m *models.CategoryModel, in *Input) error {
	errs := validation.Errors{}

	name := sanitize.Text(in.Name)
	if name == "" {
		errs.Add("name", "name is required")
	}
	attributes := groupform.Resolve(fieldgroup.KindAttribute, in.Attributes, errs)
	if err := errs.Err(); err != nil {
		return err
	}

	var n int64
	tx := s.db.Model(&models.CategoryModel{}).Where("LOWER(name) = LOWER(?)", name)
	if m.ID != "" {
		tx = tx.Where("id <> ?", m.ID)
	}
	if err := tx.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateName
	}

	m.Name = name
	m.Description = sanitize.Text(in.Description)
	m.HasAttributes = len(attributes) > 0
	m.Attributes = attributes
	return nil
}
