package events

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event-related routes
func SetupEventRoutes(rg *gin.RouterGroup, controller Controller) {
	events := rg.Group("/events")
	{
		// Public routes
		events.GET("/:id", controller.GetEvent) // GET /api/v1/events/:id

		// Admin routes
		admin := events.Group("")
		admin.Use(middleware.JWTAuth(), middleware.RequireRoles("ADMIN"))
		{
			admin.POST("", controller.CreateEvent)                    // POST /api/v1/events
			admin.PATCH("/:id/status", controller.UpdateEventStatus)  // PATCH /api/v1/events/:id/status
			admin.PATCH("/:id/tier-price", controller.UpdateTierPrice) // PATCH /api/v1/events/:id/tier-price
		}
	}
}
