package holds

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides read access to the hold store. Writes happen inside
// the booking repository's transactions so that hold creation and deletion
// stay atomic with the owning booking's status.
type Repository interface {
	ActiveByEvent(ctx context.Context, eventID uuid.UUID, now time.Time) ([]Hold, error)
	ActiveForUnits(ctx context.Context, eventID uuid.UUID, unitIDs []string, now time.Time) ([]Hold, error)
	ByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Hold, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ActiveByEvent(ctx context.Context, eventID uuid.UUID, now time.Time) ([]Hold, error) {
	var held []Hold
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("expires_at > ?", now).
		Find(&held).Error
	return held, err
}

func (r *repository) ActiveForUnits(ctx context.Context, eventID uuid.UUID, unitIDs []string, now time.Time) ([]Hold, error) {
	var held []Hold
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("unit_id IN ?", unitIDs).
		Where("expires_at > ?", now).
		Find(&held).Error
	return held, err
}

func (r *repository) ByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Hold, error) {
	var held []Hold
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Find(&held).Error
	return held, err
}
