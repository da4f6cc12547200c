package bookings

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"ticketly/internal/inventory"
	"ticketly/internal/notifications"
	"ticketly/internal/shared/clock"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

// UnitCatalog is the slice of the inventory service the booking core
// consumes: validated selections with price snapshots.
type UnitCatalog interface {
	ResolveSelection(ctx context.Context, eventID uuid.UUID, unitIDs []string) ([]inventory.UnitSelection, error)
	ListUnits(ctx context.Context, eventID uuid.UUID) ([]inventory.UnitSelection, error)
}

// EventService is the slice of the events package the booking core consumes
type EventService interface {
	GetEventInfo(ctx context.Context, eventID uuid.UUID) (*EventInfo, error)
	MarkAttendee(ctx context.Context, eventID, userID uuid.UUID) error
}

// PaymentGateway abstracts the external payment provider
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, bookingID uuid.UUID, amount float64) (*PaymentIntent, error)
	GetPaymentStatus(ctx context.Context, paymentRef string) (PaymentStatus, error)
}

type Service interface {
	// Reserve claims the requested units for a user and returns a pending
	// booking plus the payment handle. All-or-nothing per request.
	Reserve(ctx context.Context, eventID, userID uuid.UUID, req *ReserveRequest) (*ReserveResponse, error)

	// ConfirmPaid finalizes a pending booking after successful payment.
	// Safe to call multiple times and from multiple sources; only the first
	// call has any effect. A confirmation arriving after the booking's holds
	// have lapsed is dropped, since the units may already belong to someone
	// else.
	ConfirmPaid(ctx context.Context, bookingID uuid.UUID, paymentRef, source string) error

	// MarkFailed records a failed payment attempt and releases the units
	MarkFailed(ctx context.Context, bookingID uuid.UUID, paymentRef string) error

	// Refund moves a paid booking to REFUNDED after the gateway reports the
	// charge was returned
	Refund(ctx context.Context, bookingID uuid.UUID, paymentRef string) error

	// Cancel lets the owner of a paid booking cancel before the event starts
	Cancel(ctx context.Context, bookingID, userID uuid.UUID) error

	// ResolveBookingByRef maps a gateway payment reference onto its booking,
	// for webhook deliveries that arrive without our metadata echo.
	ResolveBookingByRef(ctx context.Context, paymentRef string) (uuid.UUID, error)

	// GetBookingStatus returns the booking's current state. For pending
	// bookings with a payment ref it first reconciles against the gateway,
	// so a client that missed the webhook still converges.
	GetBookingStatus(ctx context.Context, bookingID, userID uuid.UUID) (*BookingStatusResponse, error)

	GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingStatusResponse, int64, error)

	// GetEventAvailability returns the advisory per-unit availability view
	GetEventAvailability(ctx context.Context, eventID uuid.UUID) ([]inventory.UnitAvailability, error)

	// SweepExpired runs one expiry pass and returns what it touched
	SweepExpired(ctx context.Context) (int64, int64, error)
}

type service struct {
	repo         Repository
	catalog      UnitCatalog
	events       EventService
	gateway      PaymentGateway
	producer     notifications.Producer
	clock        clock.Clock
	holdDuration time.Duration
	logger       *logger.Logger
}

func NewService(
	repo Repository,
	catalog UnitCatalog,
	events EventService,
	gateway PaymentGateway,
	producer notifications.Producer,
	clk clock.Clock,
	holdDuration time.Duration,
	log *logger.Logger,
) Service {
	return &service{
		repo:         repo,
		catalog:      catalog,
		events:       events,
		gateway:      gateway,
		producer:     producer,
		clock:        clk,
		holdDuration: holdDuration,
		logger:       log,
	}
}

func (s *service) Reserve(ctx context.Context, eventID, userID uuid.UUID, req *ReserveRequest) (*ReserveResponse, error) {
	event, err := s.events.GetEventInfo(ctx, eventID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if !event.Bookable || !event.StartsAt.After(now) {
		return nil, ErrEventNotBookable
	}

	selection, err := s.catalog.ResolveSelection(ctx, eventID, req.Units)
	if err != nil {
		return nil, err
	}

	ticketNumber, err := generateTicketNumber(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ticket number: %w", err)
	}

	booking := &Booking{
		ID:           uuid.New(),
		EventID:      eventID,
		UserID:       userID,
		TicketNumber: ticketNumber,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, sel := range selection {
		booking.TotalAmount += sel.UnitPrice
		booking.Units = append(booking.Units, BookingUnit{
			ID:        uuid.New(),
			BookingID: booking.ID,
			UnitID:    sel.UnitID,
			UnitType:  sel.UnitType,
			UnitPrice: sel.UnitPrice,
			CreatedAt: now,
		})
	}

	expiresAt := now.Add(s.holdDuration)
	if err := s.repo.CreatePendingWithHolds(ctx, booking, expiresAt, now); err != nil {
		return nil, err
	}
	s.logger.LogReservationCreated(ctx, booking.ID.String(), eventID.String(), userID.String(), len(booking.Units))

	resp := &ReserveResponse{
		BookingID:    booking.ID.String(),
		TicketNumber: booking.TicketNumber,
		Status:       booking.Status.String(),
		TotalAmount:  booking.TotalAmount,
		Units:        toUnitInfos(booking.Units),
		ExpiresAt:    expiresAt,
	}

	// The reservation is durable at this point. A gateway outage must not
	// undo it; the client retries intent creation via the status endpoint.
	intent, err := s.gateway.CreatePaymentIntent(ctx, booking.ID, booking.TotalAmount)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "payment intent creation failed", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
		resp.PaymentPending = true
		return resp, nil
	}
	if err := s.repo.SetPaymentRef(ctx, booking.ID, intent.Ref, now); err != nil {
		return nil, fmt.Errorf("failed to record payment ref: %w", err)
	}
	resp.PaymentClientSecret = intent.ClientSecret
	return resp, nil
}

func (s *service) ConfirmPaid(ctx context.Context, bookingID uuid.UUID, paymentRef, source string) error {
	now := s.clock.Now()
	applied, err := s.repo.MarkPaid(ctx, bookingID, paymentRef, now)
	if err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}
	if !applied {
		// Duplicate webhook, recovery racing the webhook, or a booking whose
		// holds already lapsed. Either way there is nothing left to do.
		return nil
	}
	s.logger.LogBookingPaid(ctx, bookingID.String(), paymentRef, source)

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if s.events != nil {
		if err := s.events.MarkAttendee(ctx, booking.EventID, booking.UserID); err != nil {
			s.logger.ErrorWithContext(ctx, "failed to record attendee", err, map[string]interface{}{
				"booking_id": bookingID.String(),
			})
		}
	}
	s.publishEvent(ctx, notifications.EventBookingPaid, booking)
	return nil
}

func (s *service) MarkFailed(ctx context.Context, bookingID uuid.UUID, paymentRef string) error {
	applied, err := s.repo.TransitionFromPending(ctx, bookingID, StatusFailed, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to mark booking failed: %w", err)
	}
	if applied {
		s.logger.LogBookingCancelled(ctx, bookingID.String(), StatusFailed.String())
	}
	return nil
}

func (s *service) Refund(ctx context.Context, bookingID uuid.UUID, paymentRef string) error {
	applied, err := s.repo.TransitionFromPaid(ctx, bookingID, StatusRefunded, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to refund booking: %w", err)
	}
	if !applied {
		return nil
	}
	s.logger.LogBookingCancelled(ctx, bookingID.String(), StatusRefunded.String())

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	s.publishEvent(ctx, notifications.EventBookingRefunded, booking)
	return nil
}

func (s *service) Cancel(ctx context.Context, bookingID, userID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return ErrNotBookingOwner
	}
	if !booking.Status.CanBeCancelled() {
		return ErrInvalidTransition
	}

	event, err := s.events.GetEventInfo(ctx, booking.EventID)
	if err != nil {
		return err
	}
	if !event.StartsAt.After(s.clock.Now()) {
		return ErrEventNotBookable
	}

	applied, err := s.repo.TransitionFromPaid(ctx, bookingID, StatusCancelled, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if !applied {
		// Lost a race with a refund or another cancel.
		return ErrInvalidTransition
	}
	s.logger.LogBookingCancelled(ctx, bookingID.String(), StatusCancelled.String())

	booking.Status = StatusCancelled
	s.publishEvent(ctx, notifications.EventBookingCancelled, booking)
	return nil
}

func (s *service) ResolveBookingByRef(ctx context.Context, paymentRef string) (uuid.UUID, error) {
	booking, err := s.repo.GetByPaymentRef(ctx, paymentRef)
	if err != nil {
		return uuid.Nil, err
	}
	return booking.ID, nil
}

func (s *service) GetBookingStatus(ctx context.Context, bookingID, userID uuid.UUID) (*BookingStatusResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	// Recovery path: ask the gateway directly instead of trusting that the
	// webhook arrived. The conditional updates keep this race-free.
	if booking.IsPending() && booking.PaymentRef != nil {
		status, err := s.gateway.GetPaymentStatus(ctx, *booking.PaymentRef)
		if err != nil {
			s.logger.ErrorWithContext(ctx, "payment status poll failed", err, map[string]interface{}{
				"booking_id": bookingID.String(),
			})
		} else {
			switch status {
			case PaymentStatusSucceeded:
				if err := s.ConfirmPaid(ctx, bookingID, *booking.PaymentRef, ConfirmSourceRecovery); err != nil {
					return nil, err
				}
			case PaymentStatusFailed:
				if err := s.MarkFailed(ctx, bookingID, *booking.PaymentRef); err != nil {
					return nil, err
				}
			}
			if status != PaymentStatusPending {
				if booking, err = s.repo.GetByID(ctx, bookingID); err != nil {
					return nil, err
				}
			}
		}
	}

	response := booking.ToStatusResponse()
	if booking.IsPending() {
		expiry, err := s.repo.HoldExpiry(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		response.ExpiresAt = expiry
	}
	return response, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingStatusResponse, int64, error) {
	bookings, totalCount, err := s.repo.GetUserBookings(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load user bookings: %w", err)
	}
	responses := make([]BookingStatusResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, *bookings[i].ToStatusResponse())
	}
	return responses, totalCount, nil
}

func (s *service) GetEventAvailability(ctx context.Context, eventID uuid.UUID) ([]inventory.UnitAvailability, error) {
	units, err := s.catalog.ListUnits(ctx, eventID)
	if err != nil {
		return nil, err
	}
	held, sold, err := s.repo.UnavailableUnits(ctx, eventID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	heldSet := make(map[string]bool, len(held))
	for _, id := range held {
		heldSet[id] = true
	}
	soldSet := make(map[string]bool, len(sold))
	for _, id := range sold {
		soldSet[id] = true
	}

	availability := make([]inventory.UnitAvailability, 0, len(units))
	for _, u := range units {
		state := inventory.UnitStateAvailable
		switch {
		case soldSet[u.UnitID]:
			state = inventory.UnitStateSold
		case heldSet[u.UnitID]:
			state = inventory.UnitStateHeld
		}
		availability = append(availability, inventory.UnitAvailability{
			UnitID:   u.UnitID,
			UnitType: u.UnitType,
			Price:    u.UnitPrice,
			State:    state,
		})
	}
	return availability, nil
}

func (s *service) SweepExpired(ctx context.Context) (int64, int64, error) {
	expired, released, err := s.repo.SweepExpired(ctx, s.clock.Now(), s.holdDuration)
	if err != nil {
		return 0, 0, fmt.Errorf("expiry sweep failed: %w", err)
	}
	if expired > 0 || released > 0 {
		s.logger.LogSweep(ctx, int(expired), int(released))
	}
	return expired, released, nil
}

func (s *service) publishEvent(ctx context.Context, eventType string, booking *Booking) {
	if s.producer == nil {
		return
	}
	event := &notifications.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		EventID:      booking.EventID,
		UserID:       booking.UserID,
		TicketNumber: booking.TicketNumber,
		TotalAmount:  booking.TotalAmount,
		Units:        booking.UnitLabels(),
		OccurredAt:   s.clock.Now(),
	}
	if err := s.producer.PublishBookingEvent(ctx, event); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to publish booking event", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
			"type":       eventType,
		})
	}
}

const ticketCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateTicketNumber(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(ticketCharset))))
		if err != nil {
			return "", err
		}
		suffix[i] = ticketCharset[n.Int64()]
	}
	return fmt.Sprintf("TKT-%s-%s", now.Format("20060102"), string(suffix)), nil
}
