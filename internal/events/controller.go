package events

import (
	"net/http"

	"hostly/internal/shared/utils/response"
	"hostly/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// hostIDFromContext extracts the authenticated host's ID set by the JWT middleware
func hostIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}

	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

// CreateEvent handles POST /api/v1/events
func (c *Controller) CreateEvent(ctx *gin.Context) {
	hostID, ok := hostIDFromContext(ctx)
	if !ok {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	event, err := c.service.CreateEvent(ctx.Request.Context(), hostID, req)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}

	response.Created(ctx, event.ToResponse())
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "invalid event ID")
		return
	}

	event, err := c.service.GetEvent(ctx.Request.Context(), id)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}

	response.OK(ctx, event.ToResponse())
}

// ListMyEvents handles GET /api/v1/events
func (c *Controller) ListMyEvents(ctx *gin.Context) {
	hostID, ok := hostIDFromContext(ctx)
	if !ok {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	list, err := c.service.ListHostEvents(ctx.Request.Context(), hostID)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "failed to list events")
		return
	}

	out := make([]EventResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}

	response.OK(ctx, gin.H{"events": out, "count": len(out)})
}

// PublishEvent handles POST /api/v1/events/:id/publish
func (c *Controller) PublishEvent(ctx *gin.Context) {
	hostID, ok := hostIDFromContext(ctx)
	if !ok {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "invalid event ID")
		return
	}

	if err := c.service.PublishEvent(ctx.Request.Context(), id, hostID); err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}

	response.OK(ctx, gin.H{"published": true})
}
