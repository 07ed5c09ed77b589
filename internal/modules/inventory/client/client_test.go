package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/modules/inventory/contact"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/testutil"
)

func TestClientCRUD(t *testing.T) {
	svc := NewService(testutil.DB(t), nil)

	c, err := svc.Create(&contact.ContactDTO{Name: " Acme <i>Ltd</i>", Email: "ops@acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", c.Name)

	_, err = svc.Create(&contact.ContactDTO{Name: "acme ltd"})
	assert.ErrorIs(t, err, contact.ErrDuplicateName)

	updated, err := svc.Update(c.ID, &contact.ContactDTO{Name: "Acme Ltd", Phone: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Empty(t, updated.Email)

	list, pag, err := svc.List(pagination.Query{Page: 1, Size: 10}, "ac")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), pag.Total)

	missing, err := svc.GetByID("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteRefusedWhileOrdersExist(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db, nil)
	c, err := svc.Create(&contact.ContactDTO{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.OrderModel{ClientID: c.ID, Status: models.OrderPending}).Error)

	found, err := svc.Delete(c.ID)
	assert.ErrorIs(t, err, contact.ErrInUse)
	assert.False(t, found)

	still, err := svc.GetByID(c.ID)
	require.NoError(t, err)
	assert.NotNil(t, still, "the transaction must roll back")
}

func TestHandlerValidatesEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(testutil.DB(t), nil)).RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{"name":"Acme","email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/clients/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
