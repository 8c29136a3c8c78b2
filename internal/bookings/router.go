package bookings

import (
	"hostly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking ledger routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		bookings.POST("", controller.CreateBooking)
		bookings.GET("", controller.ListMyBookings)
		bookings.GET("/:id", controller.GetBooking)
		bookings.POST("/:id/confirm", controller.ConfirmBooking)
		bookings.POST("/:id/cancel", controller.CancelBooking)
	}
}
