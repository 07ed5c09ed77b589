package category

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stockdesk/server/internal/fieldgroup"
	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/modules/inventory/groupform"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/categories")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/attributes", h.attributes)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /categories
func (h *Handler) list(c *gin.Context) {
	items, pag, err := h.svc.List(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	counts, err := h.svc.ItemCounts(ids)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]categoryResponse, len(items))
	for i := range items {
		out[i] = categoryResponse{CategoryModel: withAttributes(items[i]), ItemCount: counts[items[i].ID]}
	}
	response.Paged(c, out, pag)
}

// GET /categories/:id
func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "category not found")
		return
	}
	response.OK(c, withAttributes(*m))
}

// GET /categories/:id/attributes
func (h *Handler) attributes(c *gin.Context) {
	seeds, err := h.svc.Attributes(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if seeds == nil {
		response.NotFoundMsg(c, "category not found")
		return
	}
	response.OK(c, seeds)
}

// POST /categories
func (h *Handler) create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}
	m, err := h.svc.Create(in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, withAttributes(*m))
}

// PUT /categories/:id
func (h *Handler) update(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}
	m, err := h.svc.Update(c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "category not found")
		return
	}
	response.OK(c, withAttributes(*m))
}

// DELETE /categories/:id
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "category not found")
		return
	}
	response.NoContent(c)
}

func fail(c *gin.Context, err error) {
	if errors.Is(err, ErrDuplicateName) {
		response.Conflict(c, err.Error())
		return
	}
	response.Error(c, err)
}

func withAttributes(m models.CategoryModel) models.CategoryModel {
	if m.Attributes == nil {
		m.Attributes = []models.OptionGroup{}
	}
	return m
}

func bindInput(c *gin.Context) (*Input, bool) {
	if groupform.IsForm(c.Request) {
		values, err := groupform.FormValues(c)
		if err != nil {
			response.BadRequest(c, err.Error())
			return nil, false
		}
		return &Input{
			Name:        values.Get("name"),
			Description: values.Get("description"),
			Attributes:  groupform.FromForm(fieldgroup.KindAttribute, values, formToggleField),
		}, true
	}

	var dto CategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}
	return &Input{
		Name:        dto.Name,
		Description: dto.Description,
		Attributes:  groupform.FromJSON(fieldgroup.KindAttribute, dto.Attributes, dto.HasAttributes),
	}, true
}
