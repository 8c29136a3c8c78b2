package analytics

import (
	"hostly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAnalyticsRoutes configures the dashboard read routes
func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller *Controller) {
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleHost, middleware.RoleAdmin))
	{
		analytics.GET("/events/:id", controller.GetEventAnalytics)
		analytics.GET("/hosts/me", controller.GetMyHostAnalytics)
	}
}
