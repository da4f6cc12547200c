package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lifecycle event types published to the booking topic
const (
	EventBookingPaid      = "booking.paid"
	EventBookingCancelled = "booking.cancelled"
	EventBookingRefunded  = "booking.refunded"
)

// BookingEvent is the message published for downstream consumers
// (email, analytics) whenever a booking reaches a terminal-ish state.
type BookingEvent struct {
	Type         string    `json:"type"`
	BookingID    uuid.UUID `json:"booking_id"`
	EventID      uuid.UUID `json:"event_id"`
	UserID       uuid.UUID `json:"user_id"`
	TicketNumber string    `json:"ticket_number"`
	TotalAmount  float64   `json:"total_amount"`
	Units        []string  `json:"units"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// PartitionKey keeps all events for one booking on the same partition so
// consumers observe them in order.
func (e *BookingEvent) PartitionKey() string {
	return e.BookingID.String()
}

// ToJSON serializes the event for the wire
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
