package inventory

import (
	"hostly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupInventoryRoutes configures ticket-type routes nested under events
func SetupInventoryRoutes(rg *gin.RouterGroup, controller *Controller) {
	tickets := rg.Group("/events/:id/ticket-types")
	{
		tickets.GET("", controller.ListTicketTypes)

		protected := tickets.Group("")
		protected.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleHost, middleware.RoleAdmin))
		{
			protected.POST("", controller.CreateTicketType)
		}
	}
}
