package events

import (
	"hostly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event-metadata routes
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	events.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleHost, middleware.RoleAdmin))
	{
		events.POST("", controller.CreateEvent)
		events.GET("", controller.ListMyEvents)
		events.GET("/:id", controller.GetEvent)
		events.POST("/:id/publish", controller.PublishEvent)
	}
}
