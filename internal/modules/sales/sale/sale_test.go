package sale

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockdesk/server/internal/gridfilter"
	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/validation"
	"github.com/stockdesk/server/internal/testutil"
)

func seedOrder(t *testing.T, db *gorm.DB, status models.OrderStatus) models.OrderModel {
	t.Helper()
	client := models.ClientModel{Contact: models.Contact{Name: "Acme"}}
	require.NoError(t, db.Create(&client).Error)
	order := models.OrderModel{
		ClientID: client.ID,
		Status:   status,
		Lines:    []models.OrderLine{{ItemID: "i1", Name: "Mug", Quantity: 2, Price: 5}, {ItemID: "i2", Name: "Cap", Quantity: 1, Price: 20}},
		Total:    30,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestCreateCompletesOrderOnce(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db, nil)
	order := seedOrder(t, db, models.OrderShipped)

	sale, err := svc.Create(&SaleDTO{OrderID: order.ID})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, sale.Amount, 1e-9)
	assert.Equal(t, []string{"Mug", "Cap"}, toResponse(sale).ItemNames)
	assert.Equal(t, "Acme", toResponse(sale).ClientName)

	var reloaded models.OrderModel
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderCompleted, reloaded.Status)

	_, err = svc.Create(&SaleDTO{OrderID: order.ID})
	assert.ErrorIs(t, err, ErrAlreadySold)

	found, err := svc.Delete(sale.ID)
	require.NoError(t, err)
	assert.True(t, found)
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderShipped, reloaded.Status)
}

func TestCreateRejectsCancelledAndMissingOrders(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db, nil)
	order := seedOrder(t, db, models.OrderCancelled)

	_, err := svc.Create(&SaleDTO{OrderID: order.ID})
	v, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"cancelled orders cannot be sold"}, v.Fields["order_id"])

	_, err = svc.Create(&SaleDTO{OrderID: "missing"})
	_, ok = validation.As(err)
	assert.True(t, ok)
}

func TestListFilterByItemNames(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db, nil)
	_, err := svc.Create(&SaleDTO{OrderID: seedOrder(t, db, models.OrderPending).ID})
	require.NoError(t, err)

	model, err := gridfilter.ParseModel(`{"itemNames":{"filterType":"text","type":"startsWith","filter":"ca"}}`)
	require.NoError(t, err)
	items, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, model)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	model, err = gridfilter.ParseModel(`{"amount":{"filterType":"number","type":"greaterThan","filter":100}}`)
	require.NoError(t, err)
	items, _, err = svc.List(pagination.Query{Page: 1, Size: 10}, model)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHandlerConflictOnSecondSale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	r := gin.New()
	NewHandler(NewService(db, nil)).RegisterRoutes(r.Group("/api/v1"))
	order := seedOrder(t, db, models.OrderShipped)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(`{"order_id":"`+order.ID+`"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusConflict, post())
}
