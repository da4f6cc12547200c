package database

import (
	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/holds"
	"ticketly/internal/inventory"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&events.Event{},
		&events.Attendee{},
		&inventory.UnitType{},
		&inventory.Unit{},
		&bookings.Booking{},
		&bookings.BookingUnit{},
		&holds.Hold{},
	)
}
