package events

import (
	"time"

	"ticketly/internal/inventory"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string      `json:"name" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	Venue       string      `json:"venue" gorm:"not null;size:255"`
	StartsAt    time.Time   `json:"starts_at" gorm:"not null"`
	Status      EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Attendee records one confirmed ticket holder per event. The unique index
// makes recording idempotent for repeated payment confirmations.
type Attendee struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:uniq_event_attendee,priority:1"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uniq_event_attendee,priority:2"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}

// TableName sets the table name for Attendee
func (Attendee) TableName() string {
	return "event_attendees"
}

type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	Venue       string    `json:"venue" binding:"required,min=3,max=255"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`

	// Inventory configuration, immutable after creation except for tier
	// prices
	UnitTypes []inventory.UnitTypeSpec `json:"unit_types" binding:"required,min=1,dive"`
	Units     []inventory.UnitSpec     `json:"units" binding:"required,min=1,max=10000,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft published cancelled"`
}

type UpdateTierPriceRequest struct {
	Name  string  `json:"name" binding:"required,min=1,max=64"`
	Price float64 `json:"price" binding:"min=0"`
}

type EventResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Venue       string      `json:"venue"`
	StartsAt    time.Time   `json:"starts_at"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`

	// Availability is the advisory per-unit view; the reserve endpoint is
	// the only authority on whether a unit can actually be claimed.
	Availability []inventory.UnitAvailability `json:"availability,omitempty"`
}

// ToResponse converts an Event to its API representation
func (e *Event) ToResponse() *EventResponse {
	return &EventResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.Venue,
		StartsAt:    e.StartsAt,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
	}
}
