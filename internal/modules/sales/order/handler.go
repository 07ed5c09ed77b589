package order

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stockdesk/server/internal/gridfilter"
	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/status", h.setStatus)
	g.DELETE("/:id", h.delete)
}

// GET /orders?page=&size=&filter=
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
	out := make([]orderResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

// GET /orders/:id
func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "order not found")
		return
	}
	response.OK(c, toResponse(m))
}

// POST /orders
func (h *Handler) create(c *gin.Context) {
	var dto OrderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Create(&dto)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, toResponse(m))
}

// PUT /orders/:id
func (h *Handler) update(c *gin.Context) {
	var dto OrderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		fail(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "order not found")
		return
	}
	response.OK(c, toResponse(m))
}

// PATCH /orders/:id/status
func (h *Handler) setStatus(c *gin.Context) {
	var dto StatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.SetStatus(c.Param("id"), dto.Status)
	if err != nil {
		fail(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "order not found")
		return
	}
	response.OK(c, toResponse(m))
}

// DELETE /orders/:id
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "order not found")
		return
	}
	response.NoContent(c)
}

func fail(c *gin.Context, err error) {
	if errors.Is(err, ErrLocked) {
		response.Conflict(c, err.Error())
		return
	}
	response.Error(c, err)
}
