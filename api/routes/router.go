package routes

import (
	"net/http"
	"time"

	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/inventory"
	"ticketly/internal/notifications"
	"ticketly/internal/payments"
	"ticketly/internal/shared/clock"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/pkg/cache"
	"ticketly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer

	bookingService bookings.Service
}

// NewRouter creates a new router instance. The producer may be nil when
// Kafka is disabled.
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAPIRoutes(api)
	}
}

// BookingService returns the wired booking service so the caller can hook
// up the expiry sweeper. Only valid after SetupRoutes.
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// setupAPIRoutes wires the dependency graph and mounts every feature router
func (r *Router) setupAPIRoutes(rg *gin.RouterGroup) {
	appLogger := logger.GetDefault()
	clk := clock.NewSystem()

	// Inventory catalog
	inventoryRepo := inventory.NewRepository(r.db.GetPostgreSQL())
	inventoryService := inventory.NewService(inventoryRepo)

	// Events
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, inventoryService, r.config.Redis.AvailabilityTTL, clk, appLogger)

	// Payment gateway client
	gateway := payments.NewGatewayClient(r.config.Gateway)

	// Booking core
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(
		bookingRepo,
		inventoryService,
		events.NewBookingAdapter(eventRepo, eventService),
		gateway,
		r.producer,
		clk,
		r.config.Booking.HoldDuration,
		appLogger,
	)
	r.bookingService = bookingService

	// Late-bound collaborators on the event side
	eventService.SetAvailabilityProvider(bookingService)
	if r.db.Redis != nil {
		eventService.SetCacheService(cache.NewService(r.db.GetRedisClient()))
	}

	// Mount feature routers
	events.SetupEventRoutes(rg, events.NewController(eventService))
	bookings.SetupBookingRoutes(rg, bookings.NewController(bookingService))
	payments.SetupPaymentRoutes(rg, payments.NewWebhookController(
		bookingService,
		r.config.Gateway.WebhookSecret,
		appLogger,
	))
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "ticketly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ticketly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
