package bookings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBookingNotFound is returned when no booking exists for the given id
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidTransition is returned when an operation is attempted from an
	// illegal source status. Callers should re-fetch the booking state.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrEventNotBookable is returned when the event is missing, unpublished,
	// or has already started
	ErrEventNotBookable = errors.New("event is not available for booking")

	// ErrNotBookingOwner is returned when a user operates on someone else's booking
	ErrNotBookingOwner = errors.New("booking does not belong to user")
)

// SeatUnavailableError reports which requested units are blocked by an
// active hold or a paid booking. The reservation is all-or-nothing, so a
// single blocked unit fails the whole request.
type SeatUnavailableError struct {
	Units []string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("units unavailable: %s", strings.Join(e.Units, ", "))
}
