package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/testutil"
)

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	cat := models.CategoryModel{Name: "Mugs"}
	require.NoError(t, db.Create(&cat).Error)
	require.NoError(t, db.Create(&models.SupplierModel{Contact: models.Contact{Name: "Kiln Co"}}).Error)
	client := models.ClientModel{Contact: models.Contact{Name: "Acme"}}
	require.NoError(t, db.Create(&client).Error)

	require.NoError(t, db.Create(&[]models.ItemModel{
		{Name: "Mug", SKU: "M-1", Quantity: 2, LowStockThreshold: 5},
		{Name: "Cap", SKU: "C-1", Quantity: 40, LowStockThreshold: 5},
		{Name: "Pen", SKU: "P-1", Quantity: 5, LowStockThreshold: 5},
	}).Error)

	orders := []models.OrderModel{
		{ClientID: client.ID, Status: models.OrderPending, Total: 10},
		{ClientID: client.ID, Status: models.OrderPending, Total: 10},
		{ClientID: client.ID, Status: models.OrderCompleted, Total: 25},
		{ClientID: client.ID, Status: models.OrderCompleted, Total: 99},
	}
	require.NoError(t, db.Create(&orders).Error)

	now := time.Now()
	require.NoError(t, db.Create(&[]models.SaleModel{
		{OrderID: orders[2].ID, Amount: 25, SoldAt: now.Add(-time.Hour)},
		{OrderID: orders[3].ID, Amount: 99, SoldAt: now.Add(-40 * 24 * time.Hour)},
	}).Error)
}

func TestBuild(t *testing.T) {
	db := testutil.DB(t)
	seed(t, db)

	got, err := NewService(db, nil, 0, nil).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Counts{Items: 3, LowStock: 2, Categories: 1, Suppliers: 1, Clients: 1}, got.Counts)
	assert.Equal(t, map[models.OrderStatus]int64{
		models.OrderPending:   2,
		models.OrderShipped:   0,
		models.OrderCompleted: 2,
		models.OrderCancelled: 0,
	}, got.Orders)
	assert.Equal(t, int64(1), got.Sales.Count)
	assert.InDelta(t, 25.0, got.Sales.Total, 1e-9)
}

func TestGetServesFromCacheUntilWarmed(t *testing.T) {
	db := testutil.DB(t)
	rdb, mr := testutil.Redis(t)
	svc := NewService(db, rdb, time.Minute, nil)
	ctx := context.Background()

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.Counts.Items)
	assert.True(t, mr.Exists("stockdesk:dashboard:summary"))

	seed(t, db)
	cached, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cached.Counts.Items)

	require.NoError(t, svc.Warm(ctx))
	warmed, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), warmed.Counts.Items)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	seed(t, db)
	r := gin.New()
	NewHandler(NewService(db, nil, 0, nil)).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Counts.LowStock)
	assert.Equal(t, int64(2), body.Orders[models.OrderPending])
}
