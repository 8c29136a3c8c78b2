package inventory

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

// CreateTicketType handles POST /api/v1/events/:id/ticket-types
func (c *Controller) CreateTicketType(ctx *gin.Context) {
	hostID, ok := hostIDFromContext(ctx)
	if !ok {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "invalid event ID")
		return
	}

	var req CreateTicketTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	tt, err := c.service.CreateTicketType(ctx.Request.Context(), eventID, hostID, req)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}

	response.Created(ctx, tt.ToResponse())
}

// ListTicketTypes handles GET /api/v1/events/:id/ticket-types
func (c *Controller) ListTicketTypes(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "invalid event ID")
		return
	}

	list, err := c.service.ListEventTicketTypes(ctx.Request.Context(), eventID)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "failed to list ticket types")
		return
	}

	out := make([]TicketTypeResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}

	response.OK(ctx, gin.H{"ticket_types": out, "count": len(out)})
}
