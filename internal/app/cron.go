package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/modules/dashboard"
	pkgcron "github.com/stockdesk/server/internal/pkg/cron"
)

// purgeAfter is how long soft-deleted rows are kept before the purge job
// removes them for good.
const purgeAfter = 90 * 24 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, dash *dashboard.Service, dashTTL time.Duration, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	if dashTTL > 0 {
		sched.Register(pkgcron.Job{
			Name:        "warm_dashboard",
			Description: "Rebuild the cached dashboard summary",
			Interval:    dashTTL,
			RunOnStart:  true,
			Fn:          dash.Warm,
		})
	}

	sched.Register(pkgcron.Job{
		Name:        "purge_deleted",
		Description: "Remove soft-deleted records older than 90 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := purgeDeleted(ctx, db, time.Now().Add(-purgeAfter))
			if err != nil {
				return err
			}
			if n > 0 {
				cronLogger.Info("purged deleted records", zap.Int64("rows", n))
			}
			return nil
		},
	})
}

func purgeDeleted(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	var total int64
	for _, model := range []interface{}{
		&models.SaleModel{},
		&models.OrderModel{},
		&models.ItemModel{},
		&models.CategoryModel{},
		&models.SupplierModel{},
		&models.ClientModel{},
	} {
		res := db.WithContext(ctx).Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Delete(model)
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
	}
	return total, nil
}
