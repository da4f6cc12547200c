package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines the purchase attempt aggregate. It is owned and mutated
// only by the reconciliation logic in this package; collaborators read it
// once it reaches PAID.
type Booking struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID      uuid.UUID `gorm:"type:uuid;index:idx_bookings_event_status,priority:1;not null" json:"event_id"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	TicketNumber string    `gorm:"unique;not null" json:"ticket_number"`
	// TotalAmount is the sum of unit price snapshots at creation time and is
	// never recomputed afterwards.
	TotalAmount float64    `gorm:"not null" json:"total_amount"`
	Status      Status     `gorm:"type:varchar(20);index:idx_bookings_event_status,priority:2;default:'PENDING'" json:"status"`
	PaymentRef  *string    `gorm:"index" json:"payment_ref,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	Units []BookingUnit `json:"units,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// BookingUnit records one reserved unit with its price snapshot
type BookingUnit struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:uniq_booking_unit,priority:1" json:"booking_id"`
	UnitID    string    `gorm:"size:64;not null;uniqueIndex:uniq_booking_unit,priority:2" json:"unit_id"`
	UnitType  string    `gorm:"size:64;not null" json:"unit_type"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for BookingUnit
func (BookingUnit) TableName() string {
	return "booking_units"
}

// IsPending checks if the booking is still awaiting payment
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// IsPaid checks if the booking has been confirmed as paid
func (b *Booking) IsPaid() bool {
	return b.Status == StatusPaid
}

// UnitLabels returns the unit ids of all reserved units
func (b *Booking) UnitLabels() []string {
	labels := make([]string, 0, len(b.Units))
	for _, u := range b.Units {
		labels = append(labels, u.UnitID)
	}
	return labels
}

// EventInfo is the slice of event state the reconciliation core needs from
// the catalog collaborator (to avoid a dependency on the events package).
type EventInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	Bookable bool      `json:"bookable"`
}

// PaymentIntent is the gateway's handle for one payment attempt
type PaymentIntent struct {
	Ref          string `json:"payment_ref"`
	ClientSecret string `json:"client_secret"`
}

// PaymentStatus is the gateway-reported state of a payment intent
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Confirmation sources, recorded in logs and lifecycle events
const (
	ConfirmSourceWebhook  = "webhook"
	ConfirmSourceRecovery = "recovery"
)
