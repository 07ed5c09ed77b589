package item

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stockdesk/server/internal/fieldgroup"
	"github.com/stockdesk/server/internal/gridfilter"
	"github.com/stockdesk/server/internal/modules/inventory/groupform"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/response"
	"github.com/stockdesk/server/internal/pkg/validation"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/items")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/variants", h.variants)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /items?page=&size=&filter=
func (h *Handler) list(c *gin.Context) {
	filter, err := gridfilter.ParseModel(c.Query("filter"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, pag, err := h.svc.List(pagination.FromContext(c), filter)
	if err != nil {
		if gridfilter.IsInvalid(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	out := make([]itemResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

// GET /items/:id
func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "item not found")
		return
	}
	response.OK(c, toResponse(m))
}

// GET /items/:id/variants
func (h *Handler) variants(c *gin.Context) {
	seeds, err := h.svc.Variants(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if seeds == nil {
		response.NotFoundMsg(c, "item not found")
		return
	}
	response.OK(c, seeds)
}

// POST /items
func (h *Handler) create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}
	m, err := h.svc.Create(in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, toResponse(m))
}

// PUT /items/:id
func (h *Handler) update(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}
	m, err := h.svc.Update(c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "item not found")
		return
	}
	response.OK(c, toResponse(m))
}

// DELETE /items/:id
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "item not found")
		return
	}
	response.NoContent(c)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrDuplicateSKU) {
		response.Conflict(c, err.Error())
		return
	}
	response.Error(c, err)
}

// bindInput accepts the JSON body or the legacy variant form.
func bindInput(c *gin.Context) (*Input, bool) {
	if groupform.IsForm(c.Request) {
		values, err := groupform.FormValues(c)
		if err != nil {
			response.BadRequest(c, err.Error())
			return nil, false
		}
		errs := validation.Errors{}
		in := &Input{
			Name:              values.Get("name"),
			SKU:               values.Get("sku"),
			Description:       values.Get("description"),
			CategoryID:        groupform.FormOptionalID(values, "category_id"),
			SupplierID:        groupform.FormOptionalID(values, "supplier_id"),
			Quantity:          groupform.FormInt(values, "quantity", errs),
			Price:             groupform.FormFloat(values, "price", errs),
			LowStockThreshold: groupform.FormInt(values, "low_stock_threshold", errs),
			Variants:          groupform.FromForm(fieldgroup.KindVariant, values, formToggleField),
		}
		if len(errs) > 0 {
			response.ValidationFailed(c, errs)
			return nil, false
		}
		return in, true
	}

	var dto ItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}
	return &Input{
		Name:              dto.Name,
		SKU:               dto.SKU,
		Description:       dto.Description,
		CategoryID:        dto.CategoryID,
		SupplierID:        dto.SupplierID,
		Quantity:          dto.Quantity,
		Price:             dto.Price,
		LowStockThreshold: dto.LowStockThreshold,
		Variants:          groupform.FromJSON(fieldgroup.KindVariant, dto.Variants, dto.HasVariants),
	}, true
}
