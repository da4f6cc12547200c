package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Reserve handles POST /api/v1/events/:id/reserve
func (c *Controller) Reserve(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req ReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := c.service.Reserve(ctx.Request.Context(), eventID, userID, &req)
	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Reservation created successfully",
		"data":    response,
	})
}

// GetBooking handles GET /api/v1/bookings/:id
//
// This doubles as the recovery endpoint: polling it reconciles a pending
// booking against the gateway before answering.
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	response, err := c.service.GetBookingStatus(ctx.Request.Context(), bookingID, userID)
	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": response})
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	if err := c.service.Cancel(ctx.Request.Context(), bookingID, userID); err != nil {
		respondBookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

// GetUserBookings handles GET /api/v1/users/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	bookings, totalCount, err := c.service.GetUserBookings(ctx.Request.Context(), userID, query.Limit, query.Offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookings"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"bookings":    bookings,
			"total_count": totalCount,
		},
	})
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}

	userIDStr, ok := userIDInterface.(string)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return uuid.Nil, false
	}
	return userID, true
}

func respondBookingError(ctx *gin.Context, err error) {
	var unavailable *SeatUnavailableError
	switch {
	case errors.As(err, &unavailable):
		ctx.JSON(http.StatusConflict, gin.H{
			"error": "Some units are no longer available",
			"units": unavailable.Units,
		})
	case errors.Is(err, ErrBookingNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, ErrNotBookingOwner):
		// Hide other users' bookings rather than confirming they exist.
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Booking is not in a state that allows this operation"})
	case errors.Is(err, ErrEventNotBookable):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Event is not available for booking"})
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Request failed",
			"details": err.Error(),
		})
	}
}
