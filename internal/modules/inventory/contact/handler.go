package contact

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stockdesk/server/internal/pkg/pagination"
	"github.com/stockdesk/server/internal/pkg/response"
)

type Handler[M any, P Record[M]] struct {
	svc  *Service[M, P]
	path string
	noun string
}

// NewHandler serves svc under path, e.g. "/suppliers". noun appears in
// not-found messages.
func NewHandler[M any, P Record[M]](svc *Service[M, P], path, noun string) *Handler[M, P] {
	return &Handler[M, P]{svc: svc, path: path, noun: noun}
}

func (h *Handler[M, P]) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group(h.path)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler[M, P]) notFound(c *gin.Context) {
	response.NotFoundMsg(c, h.noun+" not found")
}

// GET /<path>?search=
func (h *Handler[M, P]) list(c *gin.Context) {
	items, pag, err := h.svc.List(pagination.FromContext(c), c.Query("search"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /<path>/:id
func (h *Handler[M, P]) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		h.notFound(c)
		return
	}
	response.OK(c, m)
}

// POST /<path>
func (h *Handler[M, P]) create(c *gin.Context) {
	var dto ContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Create(&dto)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, m)
}

// PUT /<path>/:id
func (h *Handler[M, P]) update(c *gin.Context) {
	var dto ContactDTO
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
		h.notFound(c)
		return
	}
	response.OK(c, m)
}

// DELETE /<path>/:id
func (h *Handler[M, P]) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		h.notFound(c)
		return
	}
	response.NoContent(c)
}

func fail(c *gin.Context, err error) {
	if errors.Is(err, ErrDuplicateName) || errors.Is(err, ErrInUse) {
		response.Conflict(c, err.Error())
		return
	}
	response.Error(c, err)
}
