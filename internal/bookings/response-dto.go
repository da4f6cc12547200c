package bookings

import "time"

// ReserveResponse is returned after a successful reservation. The client
// completes payment out-of-band using the client secret before the holds
// expire.
type ReserveResponse struct {
	BookingID           string            `json:"booking_id"`
	TicketNumber        string            `json:"ticket_number"`
	Status              string            `json:"status"`
	TotalAmount         float64           `json:"total_amount"`
	Units               []BookingUnitInfo `json:"units"`
	PaymentClientSecret string            `json:"payment_client_secret,omitempty"`
	// PaymentPending is set when the gateway could not be reached; the
	// reservation stands and intent creation can be retried via the
	// status endpoint while the holds are alive.
	PaymentPending bool      `json:"payment_pending,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// BookingUnitInfo represents one reserved unit in responses
type BookingUnitInfo struct {
	UnitID    string  `json:"unit_id"`
	UnitType  string  `json:"unit_type"`
	UnitPrice float64 `json:"unit_price"`
}

// BookingStatusResponse is returned by the status/recovery endpoint
type BookingStatusResponse struct {
	BookingID    string            `json:"booking_id"`
	TicketNumber string            `json:"ticket_number"`
	EventID      string            `json:"event_id"`
	Status       string            `json:"status"`
	TotalAmount  float64           `json:"total_amount"`
	Units        []BookingUnitInfo `json:"units"`
	CreatedAt    time.Time         `json:"created_at"`
	PaidAt       *time.Time        `json:"paid_at,omitempty"`
	CancelledAt  *time.Time        `json:"cancelled_at,omitempty"`
	// ExpiresAt is set only while the booking is pending payment
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func toUnitInfos(units []BookingUnit) []BookingUnitInfo {
	infos := make([]BookingUnitInfo, 0, len(units))
	for _, u := range units {
		infos = append(infos, BookingUnitInfo{
			UnitID:    u.UnitID,
			UnitType:  u.UnitType,
			UnitPrice: u.UnitPrice,
		})
	}
	return infos
}

// ToStatusResponse converts a Booking to its status representation
func (b *Booking) ToStatusResponse() *BookingStatusResponse {
	return &BookingStatusResponse{
		BookingID:    b.ID.String(),
		TicketNumber: b.TicketNumber,
		EventID:      b.EventID.String(),
		Status:       b.Status.String(),
		TotalAmount:  b.TotalAmount,
		Units:        toUnitInfos(b.Units),
		CreatedAt:    b.CreatedAt,
		PaidAt:       b.PaidAt,
		CancelledAt:  b.CancelledAt,
	}
}
