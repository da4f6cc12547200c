package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"ticketly/internal/holds"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreatePendingWithHolds atomically creates a pending booking, its unit
	// snapshots, and one hold per unit. Fails with SeatUnavailableError if
	// any requested unit has a live hold or belongs to a paid booking;
	// nothing is written in that case.
	CreatePendingWithHolds(ctx context.Context, booking *Booking, expiresAt, now time.Time) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByPaymentRef(ctx context.Context, paymentRef string) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, int64, error)

	// SetPaymentRef records the gateway intent on a still-pending booking.
	SetPaymentRef(ctx context.Context, id uuid.UUID, paymentRef string, now time.Time) error

	// MarkPaid transitions PENDING -> PAID and clears the booking's holds in
	// one transaction. Returns false (and no error) when the booking was not
	// in PENDING or no longer owns a live hold, so racing confirmations
	// apply at most once and a late confirmation can never claim units that
	// may have been resold after its holds lapsed.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string, now time.Time) (bool, error)

	// TransitionFromPending applies PENDING -> to (FAILED or EXPIRED) and
	// releases the holds immediately. Same at-most-once contract as MarkPaid.
	TransitionFromPending(ctx context.Context, id uuid.UUID, to Status, now time.Time) (bool, error)

	// TransitionFromPaid applies PAID -> to (CANCELLED or REFUNDED).
	TransitionFromPaid(ctx context.Context, id uuid.UUID, to Status, now time.Time) (bool, error)

	// SweepExpired expires pending bookings whose holds have all lapsed and
	// deletes every expired hold. Both statements compare against the same
	// now value. Returns (expired bookings, released holds).
	SweepExpired(ctx context.Context, now time.Time, holdDuration time.Duration) (int64, int64, error)

	// UnavailableUnits returns the unit ids currently blocked for an event:
	// held by a live hold, or sold to a paid booking.
	UnavailableUnits(ctx context.Context, eventID uuid.UUID, now time.Time) (held []string, sold []string, err error)

	// HoldExpiry returns when the booking's holds lapse, or nil if it has
	// no hold rows left.
	HoldExpiry(ctx context.Context, bookingID uuid.UUID) (*time.Time, error)
}

type repository struct {
	db    *gorm.DB
	holds holds.Repository
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, holds: holds.NewRepository(db)}
}

func (r *repository) CreatePendingWithHolds(ctx context.Context, booking *Booking, expiresAt, now time.Time) error {
	labels := booking.UnitLabels()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Purge stale claims first so the unique constraint only guards live
		// holds; a lapsed hold must never block a new sale.
		if err := tx.Exec(
			`DELETE FROM holds WHERE event_id = ? AND unit_id IN ? AND expires_at <= ?`,
			booking.EventID, labels, now,
		).Error; err != nil {
			return err
		}

		// Enumerate conflicts for the error payload. This read is advisory;
		// the unique constraint at insert time is the actual authority.
		active, err := holds.NewRepository(tx).ActiveForUnits(ctx, booking.EventID, labels, now)
		if err != nil {
			return err
		}
		blocked := make([]string, 0, len(active))
		for _, h := range active {
			blocked = append(blocked, h.UnitID)
		}

		var sold []string
		if err := tx.Raw(
			`SELECT bu.unit_id FROM booking_units bu
			 JOIN bookings b ON b.id = bu.booking_id
			 WHERE b.event_id = ? AND b.status = ? AND bu.unit_id IN ?`,
			booking.EventID, StatusPaid, labels,
		).Scan(&sold).Error; err != nil {
			return err
		}

		if len(blocked)+len(sold) > 0 {
			return &SeatUnavailableError{Units: dedupe(append(blocked, sold...))}
		}

		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		claims := make([]holds.Hold, 0, len(labels))
		for _, label := range labels {
			claims = append(claims, holds.Hold{
				BookingID: booking.ID,
				EventID:   booking.EventID,
				UnitID:    label,
				ExpiresAt: expiresAt,
			})
		}
		if err := tx.Create(&claims).Error; err != nil {
			if isUniqueViolation(err) {
				// A concurrent reservation won the race between our
				// enumeration and this insert. Roll everything back.
				return &SeatUnavailableError{Units: labels}
			}
			return err
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Units").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByPaymentRef(ctx context.Context, paymentRef string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Units").
		Where("payment_ref = ?", paymentRef).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Preload("Units").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) SetPaymentRef(ctx context.Context, id uuid.UUID, paymentRef string, now time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE bookings SET payment_ref = ?, updated_at = ? WHERE id = ? AND status = ?`,
		paymentRef, now, id, StatusPending,
	).Error
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string, now time.Time) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE bookings
			 SET status = ?, paid_at = ?, updated_at = ?, payment_ref = COALESCE(payment_ref, ?)
			 WHERE id = ? AND status = ?
			   AND EXISTS (
			       SELECT 1 FROM holds
			       WHERE holds.booking_id = bookings.id AND holds.expires_at > ?
			   )`,
			StatusPaid, now, now, paymentRef, id, StatusPending, now,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		// The booking now blocks its units through membership, not holds.
		return tx.Exec(`DELETE FROM holds WHERE booking_id = ?`, id).Error
	})
	return applied, err
}

func (r *repository) TransitionFromPending(ctx context.Context, id uuid.UUID, to Status, now time.Time) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			to, now, id, StatusPending,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		// Release the claims immediately; no need to wait for the sweeper.
		return tx.Exec(`DELETE FROM holds WHERE booking_id = ?`, id).Error
	})
	return applied, err
}

func (r *repository) TransitionFromPaid(ctx context.Context, id uuid.UUID, to Status, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE bookings SET status = ?, cancelled_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, now, now, id, StatusPaid,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SweepExpired(ctx context.Context, now time.Time, holdDuration time.Duration) (int64, int64, error) {
	var expiredBookings, releasedHolds int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Only bookings whose claims have genuinely all lapsed are expired;
		// a pending booking with any live hold is left alone.
		res := tx.Exec(
			`UPDATE bookings SET status = ?, updated_at = ?
			 WHERE status = ?
			   AND created_at <= ?
			   AND NOT EXISTS (
			       SELECT 1 FROM holds
			       WHERE holds.booking_id = bookings.id AND holds.expires_at > ?
			   )`,
			StatusExpired, now, StatusPending, now.Add(-holdDuration), now,
		)
		if res.Error != nil {
			return res.Error
		}
		expiredBookings = res.RowsAffected

		// Single conditional delete: a hold that a concurrent confirmation
		// just cleared is gone already, and a live one never matches.
		res = tx.Exec(`DELETE FROM holds WHERE expires_at <= ?`, now)
		if res.Error != nil {
			return res.Error
		}
		releasedHolds = res.RowsAffected
		return nil
	})

	return expiredBookings, releasedHolds, err
}

func (r *repository) UnavailableUnits(ctx context.Context, eventID uuid.UUID, now time.Time) ([]string, []string, error) {
	active, err := r.holds.ActiveByEvent(ctx, eventID, now)
	if err != nil {
		return nil, nil, err
	}
	held := make([]string, 0, len(active))
	for _, h := range active {
		held = append(held, h.UnitID)
	}

	var sold []string
	if err := r.db.WithContext(ctx).Raw(
		`SELECT bu.unit_id FROM booking_units bu
		 JOIN bookings b ON b.id = bu.booking_id
		 WHERE b.event_id = ? AND b.status = ?`,
		eventID, StatusPaid,
	).Scan(&sold).Error; err != nil {
		return nil, nil, err
	}

	return held, sold, nil
}

func (r *repository) HoldExpiry(ctx context.Context, bookingID uuid.UUID) (*time.Time, error) {
	claims, err := r.holds.ByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if len(claims) == 0 {
		return nil, nil
	}
	expiry := claims[0].ExpiresAt
	return &expiry, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
