// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"hostly/internal/analytics"
	"hostly/internal/bookings"
	"hostly/internal/events"
	"hostly/internal/inventory"
	"hostly/internal/reconciler"
	"hostly/internal/shared/config"
	"hostly/internal/shared/database"
	"hostly/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service
	publisher    bookings.ChangePublisher

	// Kept after setup for wiring the reconciliation consumer.
	eventService     events.Service
	analyticsService analytics.Service
	applier          *reconciler.Applier
	backfill         *reconciler.Backfill
}

// NewRouter creates a new router instance. The publisher may be nil,
// in which case booking changes are reconciled in-process.
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, publisher bookings.ChangePublisher) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cacheService,
		publisher:    publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Events first: analytics and inventory depend on the event
		// service for authoritative metadata.
		r.setupEventRoutes(api)
		r.setupAnalyticsRoutes(api)
		r.setupBookingRoutes(api)
		r.setupInventoryRoutes(api)
	}
}

// Applier returns the reconciliation handler built during route setup
func (r *Router) Applier() *reconciler.Applier {
	return r.applier
}

// Backfill returns the sweep that republishes booking changes lost
// between commit and publish
func (r *Router) Backfill() *reconciler.Backfill {
	return r.backfill
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "hostly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "hostly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupEventRoutes configures event metadata routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo)
	if r.cacheService != nil {
		eventService.SetCacheService(r.cacheService)
	}
	r.eventService = eventService

	eventController := events.NewController(eventService)
	events.SetupEventRoutes(rg, eventController)
}

// setupAnalyticsRoutes configures aggregate dashboard routes and builds
// the reconciliation applier on top of the same services
func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsRepo := analytics.NewRepository(r.db.GetPostgreSQL())
	analyticsService := analytics.NewService(analyticsRepo, r.eventService)
	if r.cacheService != nil {
		analyticsService.SetCacheService(r.cacheService)
	}
	r.analyticsService = analyticsService

	r.applier = reconciler.NewApplier(analyticsService, r.eventService)

	analyticsController := analytics.NewController(analyticsService)
	analytics.SetupAnalyticsRoutes(rg, analyticsController)
}

// setupBookingRoutes configures the booking ledger routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())

	publisher := r.publisher
	if publisher == nil {
		publisher = reconciler.NewDirectPublisher(r.applier)
	}

	bookingService := bookings.NewService(bookingRepo, publisher)
	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController)

	r.backfill = reconciler.NewBackfill(bookingRepo, publisher, r.config.ReconcileBackfillInterval)
}

// setupInventoryRoutes configures ticket-type inventory routes
func (r *Router) setupInventoryRoutes(rg *gin.RouterGroup) {
	inventoryRepo := inventory.NewRepository(r.db.GetPostgreSQL())
	inventoryService := inventory.NewService(inventoryRepo, r.eventService)
	if r.cacheService != nil {
		inventoryService.SetCacheService(r.cacheService)
	}

	inventoryController := inventory.NewController(inventoryService)
	inventory.SetupInventoryRoutes(rg, inventoryController)
}
