package events

import (
	"context"

	"ticketly/internal/bookings"

	"github.com/google/uuid"
)

// BookingAdapter exposes this package to the booking service through its
// narrow EventService port.
type BookingAdapter struct {
	repo    Repository
	service Service
}

func NewBookingAdapter(repo Repository, service Service) *BookingAdapter {
	return &BookingAdapter{repo: repo, service: service}
}

func (a *BookingAdapter) GetEventInfo(ctx context.Context, eventID uuid.UUID) (*bookings.EventInfo, error) {
	event, err := a.repo.GetByID(ctx, eventID)
	if err != nil {
		if err == ErrEventNotFound {
			return nil, bookings.ErrEventNotBookable
		}
		return nil, err
	}
	return &bookings.EventInfo{
		ID:       event.ID,
		Name:     event.Name,
		StartsAt: event.StartsAt,
		Bookable: event.Status.IsBookable(),
	}, nil
}

func (a *BookingAdapter) MarkAttendee(ctx context.Context, eventID, userID uuid.UUID) error {
	return a.service.RecordAttendee(ctx, eventID, userID)
}

var _ bookings.EventService = (*BookingAdapter)(nil)
