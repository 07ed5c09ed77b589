package client

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/modules/inventory/contact"
)

type (
	Service = contact.Service[models.ClientModel, *models.ClientModel]
	Handler = contact.Handler[models.ClientModel, *models.ClientModel]
)

// NewService returns client CRUD. Clients with orders cannot be deleted.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return contact.NewService[models.ClientModel, *models.ClientModel](db, logger, "ClientService", refuseWithOrders)
}

func NewHandler(svc *Service) *Handler {
	return contact.NewHandler(svc, "/clients", "client")
}

func refuseWithOrders(tx *gorm.DB, id string) error {
	var n int64
	if err := tx.Model(&models.OrderModel{}).Where("client_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: client has %d orders", contact.ErrInUse, n)
	}
	return nil
}
