package analytics

import (
	"net/http"

	"hostly/internal/shared/middleware"
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

func callerFromContext(ctx *gin.Context) (uuid.UUID, string, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, "", false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, "", false
	}

	role := ""
	if r, exists := ctx.Get("user_role"); exists {
		role, _ = r.(string)
	}
	return id, role, true
}

// GetEventAnalytics handles GET /api/v1/analytics/events/:id
func (c *Controller) GetEventAnalytics(ctx *gin.Context) {
	callerID, role, ok := callerFromContext(ctx)
	if !ok {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "invalid event ID")
		return
	}

	ea, err := c.service.GetEventAnalytics(ctx.Request.Context(), eventID)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}

	// Hosts see only their own events.
	if role != middleware.RoleAdmin && ea.HostID != callerID {
		response.Fail(ctx, http.StatusForbidden, "analytics access denied")
		return
	}

	response.OK(ctx, ea)
}

// GetMyHostAnalytics handles GET /api/v1/analytics/hosts/me
func (c *Controller) GetMyHostAnalytics(ctx *gin.Context) {
	callerID, _, ok := callerFromContext(ctx)
	if !ok {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	ha, err := c.service.GetHostAnalytics(ctx.Request.Context(), callerID)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "failed to load host analytics")
		return
	}

	response.OK(ctx, ha)
}
