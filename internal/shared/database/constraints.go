package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the indexes the hot paths rely on. The unique
// constraint on holds (event_id, unit_id) is created by AutoMigrate from the
// model tags; everything here is secondary.
func MigrateConstraints(db *gorm.DB) error {
	// Sweeper scans holds by expiry
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_holds_expires_at
		ON holds (expires_at);
	`).Error
	if err != nil {
		return err
	}

	// Availability view joins paid bookings by event
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_event_status
		ON bookings (event_id, status);
	`).Error
	if err != nil {
		return err
	}

	// Webhook recovery looks bookings up by gateway reference
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_payment_ref
		ON bookings (payment_ref)
		WHERE payment_ref IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	return nil
}
