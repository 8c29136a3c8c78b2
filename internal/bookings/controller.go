package bookings

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

// canAccessBooking reports whether the caller may read or mutate the
// booking. Only the buyer and admins qualify.
func canAccessBooking(booking *Booking, callerID uuid.UUID, role string) bool {
	return role == middleware.RoleAdmin || booking.UserID == callerID
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	// Identity from the verified token wins over the body field.
	if raw, exists := ctx.Get("user_id"); exists {
		if str, ok := raw.(string); ok {
			req.UserID = str
		}
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), req)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}

	ctx.JSON(http.StatusOK, CreateBookingResponse{
		Success:   true,
		BookingID: booking.ID.String(),
	})
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	callerID, role, ok := callerFromContext(ctx)
	if !ok {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "invalid booking ID")
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), id)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}

	if !canAccessBooking(booking, callerID, role) {
		response.Fail(ctx, http.StatusForbidden, "booking access denied")
		return
	}

	response.OK(ctx, booking.ToResponse())
}

// ListMyBookings handles GET /api/v1/bookings
func (c *Controller) ListMyBookings(ctx *gin.Context) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}
	str, _ := raw.(string)
	userID, err := uuid.Parse(str)
	if err != nil {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	list, err := c.service.ListUserBookings(ctx.Request.Context(), userID)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}

	response.OK(ctx, gin.H{"bookings": out, "count": len(out)})
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	callerID, role, ok := callerFromContext(ctx)
	if !ok {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "invalid booking ID")
		return
	}

	existing, err := c.service.GetBooking(ctx.Request.Context(), id)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}
	if !canAccessBooking(existing, callerID, role) {
		response.Fail(ctx, http.StatusForbidden, "booking access denied")
		return
	}

	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), id)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}

	response.OK(ctx, booking.ToResponse())
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	callerID, role, ok := callerFromContext(ctx)
	if !ok {
		response.Fail(ctx, http.StatusUnauthorized, "user not authenticated")
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "invalid booking ID")
		return
	}

	existing, err := c.service.GetBooking(ctx.Request.Context(), id)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}
	if !canAccessBooking(existing, callerID, role) {
		response.Fail(ctx, http.StatusForbidden, "booking access denied")
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), id)
	if err != nil {
		response.Fail(ctx, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
		return
	}

	response.OK(ctx, booking.ToResponse())
}
