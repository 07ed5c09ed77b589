// Package contact implements the CRUD shared by suppliers and clients.
package contact

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/response"
	"github.com/stockdesk/server/internal/pkg/sanitize"
	"github.com/stockdesk/server/internal/pkg/validation"
)

var (
	ErrDuplicateName = errors.New("name already exists")
	// ErrInUse is returned by a delete hook that refuses the deletion.
	ErrInUse = errors.New("record is still referenced")
)

// Record is a pointer to a model embedding models.Contact.
type Record[M any] interface {
	*M
	Details() *models.Contact
}

// ContactDTO is the JSON body of create and update.
type ContactDTO struct {
	Name    string `json:"name"    binding:"required,max=191"`
	Email   string `json:"email"   binding:"omitempty,email,max=191"`
	Phone   string `json:"phone"   binding:"max=64"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// DeleteHook runs inside the delete transaction after the row is gone.
type DeleteHook func(tx *gorm.DB, id string) error

type Service[M any, P Record[M]] struct {
	db       *gorm.DB
	logger   *zap.Logger
	onDelete DeleteHook
}

func NewService[M any, P Record[M]](db *gorm.DB, logger *zap.Logger, name string, onDelete DeleteHook) *Service[M, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service[M, P]{db: db, logger: logger.Named(name), onDelete: onDelete}
}

// List pages records ordered by name; search matches a name prefix.
func (s *Service[M, P]) List(q pagination.Query, search string) ([]M, response.Pagination, error) {
	tx := s.db.Model(P(new(M))).Order("name ASC")
	if search = strings.TrimSpace(search); search != "" {
		tx = tx.Where("LOWER(name) LIKE ?", strings.ToLower(search)+"%")
	}
	var items []M
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service[M, P]) GetByID(id string) (P, error) {
	m := P(new(M))
	if err := s.db.First(m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (s *Service[M, P]) Create(dto *ContactDTO) (P, error) {
	m := P(new(M))
	if err := s.apply(m, "", dto); err != nil {
		return nil, err
	}
	if err := s.db.Create(m).Error; err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return m, nil
}

func (s *Service[M, P]) Update(id string, dto *ContactDTO) (P, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return m, err
	}
	if err := s.apply(m, id, dto); err != nil {
		return nil, err
	}
	if err := s.db.Save(m).Error; err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	return m, nil
}

func (s *Service[M, P]) Delete(id string) (bool, error) {
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(P(new(M)), "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		if !found || s.onDelete == nil {
			return nil
		}
		return s.onDelete(tx, id)
	})
	if err != nil {
		return false, err
	}
	if found {
		s.logger.Info("deleted", zap.String("id", id))
	}
	return found, nil
}

func (s *Service[M, P]) apply(m P, id string, dto *ContactDTO) error {
	name := sanitize.Text(dto.Name)
	if name == "" {
		return validation.Field("name", "name is required")
	}

	var n int64
	tx := s.db.Model(P(new(M))).Where("LOWER(name) = LOWER(?)", name)
	if id != "" {
		tx = tx.Where("id <> ?", id)
	}
	if err := tx.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateName
	}

	*m.Details() = models.Contact{
		Name:    name,
		Email:   strings.TrimSpace(dto.Email),
		Phone:   sanitize.Text(dto.Phone),
		Address: sanitize.Text(dto.Address),
		Notes:   sanitize.Text(dto.Notes),
	}
	return nil
}
