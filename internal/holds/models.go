package holds

import (
	"time"

	"github.com/google/uuid"
)

// Hold is a temporary exclusive claim on one inventory unit, tied to a
// pending booking. The unique constraint on (event_id, unit_id) is what
// makes concurrent reservations of the same unit impossible; expired rows
// are purged inside the reserve transaction before insert so the
// constraint only ever guards live claims.
type Hold struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_active_unit_claim,priority:1" json:"event_id"`
	UnitID    string    `gorm:"size:64;not null;uniqueIndex:uniq_active_unit_claim,priority:2" json:"unit_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Hold
func (Hold) TableName() string {
	return "holds"
}

// IsExpired reports whether the hold has passed its expiry at the given instant.
func (h *Hold) IsExpired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}
