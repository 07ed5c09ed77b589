package supplier

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/modules/inventory/contact"
)

type (
	Service = contact.Service[models.SupplierModel, *models.SupplierModel]
	Handler = contact.Handler[models.SupplierModel, *models.SupplierModel]
)

// NewService returns supplier CRUD. Deleting a supplier detaches its items.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return contact.NewService[models.SupplierModel, *models.SupplierModel](db, logger, "SupplierService", detachItems)
}

func NewHandler(svc *Service) *Handler {
	return contact.NewHandler(svc, "/suppliers", "supplier")
}

func detachItems(tx *gorm.DB, id string) error {
	return tx.Model(&models.ItemModel{}).Where("supplier_id = ?", id).Update("supplier_id", nil).Error
}
