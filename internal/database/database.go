package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stockdesk/server/internal/config"
	"github.com/stockdesk/server/internal/models"
)

// Connect opens the MySQL database described by cfg and optionally runs
// auto-migration.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	dialector := mysql.New(mysql.Config{
		DSN:               cfg.DSN,
		DefaultStringSize: 191,
	})
	return Open(dialector, resolveLogLevel(cfg), autoMigrate)
}

// Open connects through any gorm dialector. Tests pass an in-memory SQLite one.
func Open(dialector gorm.Dialector, level logger.LogLevel, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return db, nil
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	if cfg.IsDev() {
		return logger.Info
	}
	return logger.Warn
}

// Migrate runs GORM auto-migration for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.CategoryModel{},
		&models.SupplierModel{},
		&models.ClientModel{},
		&models.ItemModel{},
		&models.OrderModel{},
		&models.SaleModel{},
	)
}
