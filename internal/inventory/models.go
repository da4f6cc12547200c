package inventory

import (
	"time"

	"github.com/google/uuid"
)

// UnitType is a price tier for an event's inventory (e.g. "balcony",
// "general-admission"). Unit prices are always resolved through the type at
// reserve time and snapshotted onto the booking, so later price edits never
// change an existing sale.
type UnitType struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_unit_type_per_event,priority:1" json:"event_id"`
	Name      string    `gorm:"size:64;not null;uniqueIndex:uniq_unit_type_per_event,priority:2" json:"name"`
	Price     float64   `gorm:"not null;check:price >= 0" json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// Unit is one sellable inventory unit: a seat (row+seat label) or a
// general-admission slot. Identity is immutable once created.
type Unit struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_unit_per_event,priority:1" json:"event_id"`
	UnitID    string    `gorm:"size:64;not null;uniqueIndex:uniq_unit_per_event,priority:2" json:"unit_id"`
	UnitType  string    `gorm:"size:64;not null" json:"unit_type"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for UnitType
func (UnitType) TableName() string {
	return "unit_types"
}

// TableName sets the table name for Unit
func (Unit) TableName() string {
	return "inventory_units"
}

// UnitTypeSpec describes one price tier when defining an event's configuration
type UnitTypeSpec struct {
	Name  string  `json:"name" binding:"required,min=1,max=64"`
	Price float64 `json:"price" binding:"min=0"`
}

// UnitSpec describes one sellable unit when defining an event's configuration
type UnitSpec struct {
	UnitID   string `json:"unit_id" binding:"required,min=1,max=64"`
	UnitType string `json:"unit_type" binding:"required,min=1,max=64"`
}

// UnitSelection is a validated, price-resolved unit ready to be reserved
type UnitSelection struct {
	UnitID    string  `json:"unit_id"`
	UnitType  string  `json:"unit_type"`
	UnitPrice float64 `json:"unit_price"`
}

// Availability states for one unit
const (
	UnitStateAvailable = "available"
	UnitStateHeld      = "held"
	UnitStateSold      = "sold"
)

// UnitAvailability is the advisory availability view of one unit
type UnitAvailability struct {
	UnitID   string  `json:"unit_id"`
	UnitType string  `json:"unit_type"`
	Price    float64 `json:"price"`
	State    string  `json:"state"`
}
