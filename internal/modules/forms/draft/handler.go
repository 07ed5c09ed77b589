package draft

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stockdesk/server/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/drafts")
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/groups", h.appendGroup)
	g.PATCH("/:id/groups/:gid", h.updateGroup)
	g.DELETE("/:id/groups/:gid", h.removeGroup)
	g.PUT("/:id/enabled", h.setEnabled)
	g.GET("/:id/payload", h.payload)
	g.POST("/:id/errors", h.mapErrors)
}

// POST /drafts
func (h *Handler) create(c *gin.Context) {
	var dto CreateDraftDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, v)
}

// GET /drafts/:id
func (h *Handler) get(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, v)
}

// DELETE /drafts/:id
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, ErrNotFound.Error())
		return
	}
	response.NoContent(c)
}

// POST /drafts/:id/groups
func (h *Handler) appendGroup(c *gin.Context) {
	v, err := h.svc.AppendGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, v)
}

// PATCH /drafts/:id/groups/:gid
func (h *Handler) updateGroup(c *gin.Context) {
	gid, ok := groupID(c)
	if !ok {
		return
	}
	var dto UpdateGroupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v, err := h.svc.UpdateGroup(c.Request.Context(), c.Param("id"), gid, &dto)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, v)
}

// DELETE /drafts/:id/groups/:gid
func (h *Handler) removeGroup(c *gin.Context) {
	gid, ok := groupID(c)
	if !ok {
		return
	}
	v, err := h.svc.RemoveGroup(c.Request.Context(), c.Param("id"), gid)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, v)
}

// PUT /drafts/:id/enabled
func (h *Handler) setEnabled(c *gin.Context) {
	var dto EnabledDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v, err := h.svc.SetEnabled(c.Request.Context(), c.Param("id"), *dto.Enabled)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, v)
}

// GET /drafts/:id/payload
func (h *Handler) payload(c *gin.Context) {
	v, err := h.svc.Payload(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, v)
}

// POST /drafts/:id/errors
func (h *Handler) mapErrors(c *gin.Context) {
	var dto MapErrorsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v, err := h.svc.MapErrors(c.Request.Context(), c.Param("id"), dto.Errors)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, v)
}

func groupID(c *gin.Context) (int, bool) {
	gid, err := strconv.Atoi(c.Param("gid"))
	if err != nil || gid < 1 {
		response.BadRequest(c, "group id must be a positive integer")
		return 0, false
	}
	return gid, true
}

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrSourceNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrConflict):
		response.Conflict(c, err.Error())
	default:
		response.Error(c, err)
	}
}
