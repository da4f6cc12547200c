package bookings

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Reservation is mounted under events since units belong to an event
	events := rg.Group("/events")
	events.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		events.POST("/:id/reserve", controller.Reserve) // POST /api/v1/events/:id/reserve
	}

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		bookings.GET("/:id", controller.GetBooking)            // GET /api/v1/bookings/:id
		bookings.POST("/:id/cancel", controller.CancelBooking) // POST /api/v1/bookings/:id/cancel
	}

	users := rg.Group("/users")
	users.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		users.GET("/bookings", controller.GetUserBookings) // GET /api/v1/users/bookings
	}
}

// Route definitions for reference:
//
// RESERVATION
// POST   /api/v1/events/:id/reserve                   - Reserve specific units
// Request body: { "units": ["A-1", "A-2"] }
//
// BOOKING RETRIEVAL / RECOVERY
// GET    /api/v1/bookings/:id                         - Get booking, reconciling pending payments
//
// BOOKING CANCELLATION
// POST   /api/v1/bookings/:id/cancel                  - Cancel a paid booking before the event
//
// USER BOOKINGS
// GET    /api/v1/users/bookings?limit=10&offset=0     - Get user's bookings with pagination
//
// Key Flow:
// 1. User reserves units with POST /events/:id/reserve (booking PENDING, holds created)
// 2. Client completes payment with the returned client secret
// 3. Gateway webhook (or the status poll) confirms payment, booking becomes PAID
// 4. Unpaid reservations expire after the hold window and units free up
