package events

import (
	"context"
	"fmt"
	"time"

	"ticketly/internal/inventory"
	"ticketly/internal/shared/clock"
	"ticketly/pkg/cache"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

// AvailabilityProvider computes the per-unit availability view. It is wired
// after construction because the booking service in turn consumes this
// package through an adapter.
type AvailabilityProvider interface {
	GetEventAvailability(ctx context.Context, eventID uuid.UUID) ([]inventory.UnitAvailability, error)
}

type Service interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest, createdBy uuid.UUID) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error
	UpdateTierPrice(ctx context.Context, id uuid.UUID, name string, price float64) error
	RecordAttendee(ctx context.Context, eventID, userID uuid.UUID) error

	SetAvailabilityProvider(provider AvailabilityProvider)
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo            Repository
	catalog         inventory.Service
	availability    AvailabilityProvider
	cacheService    cache.Service
	availabilityTTL time.Duration
	clock           clock.Clock
	logger          *logger.Logger
}

func NewService(repo Repository, catalog inventory.Service, availabilityTTL time.Duration, clk clock.Clock, log *logger.Logger) Service {
	return &service{
		repo:            repo,
		catalog:         catalog,
		availabilityTTL: availabilityTTL,
		clock:           clk,
		logger:          log,
	}
}

func (s *service) SetAvailabilityProvider(provider AvailabilityProvider) {
	s.availability = provider
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateEvent(ctx context.Context, req *CreateEventRequest, createdBy uuid.UUID) (*EventResponse, error) {
	if !req.StartsAt.After(s.clock.Now()) {
		return nil, fmt.Errorf("event start time must be in the future")
	}

	event := &Event{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		Status:      StatusDraft,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := s.catalog.DefineConfiguration(ctx, event.ID, req.UnitTypes, req.Units); err != nil {
		return nil, fmt.Errorf("failed to define inventory: %w", err)
	}

	s.logger.Info("event created",
		"event_id", event.ID.String(),
		"name", event.Name,
		"units", len(req.Units),
	)
	return event.ToResponse(), nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := event.ToResponse()
	if s.availability == nil {
		return response, nil
	}

	availability, err := s.cachedAvailability(ctx, id)
	if err != nil {
		// Availability is advisory; serve the event without it rather
		// than failing the read.
		s.logger.ErrorWithContext(ctx, "failed to load availability", err, map[string]interface{}{
			"event_id": id.String(),
		})
		return response, nil
	}
	response.Availability = availability
	return response, nil
}

// cachedAvailability serves the availability view from Redis with a short
// TTL. Staleness here is acceptable because reservation re-validates.
func (s *service) cachedAvailability(ctx context.Context, eventID uuid.UUID) ([]inventory.UnitAvailability, error) {
	if s.cacheService == nil {
		return s.availability.GetEventAvailability(ctx, eventID)
	}

	key := "ticketly:availability:" + eventID.String()
	var availability []inventory.UnitAvailability
	err := s.cacheService.GetOrSet(ctx, key, s.availabilityTTL, func() (interface{}, error) {
		return s.availability.GetEventAvailability(ctx, eventID)
	}, &availability)
	if err != nil {
		return nil, err
	}
	return availability, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid event status %q", status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info("event status updated", "event_id", id.String(), "status", string(status))
	return nil
}

// UpdateTierPrice reprices a tier for future reservations. Existing
// bookings are untouched because prices are snapshotted at reserve time.
func (s *service) UpdateTierPrice(ctx context.Context, id uuid.UUID, name string, price float64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.catalog.UpdateTierPrice(ctx, id, name, price); err != nil {
		return err
	}
	s.logger.Info("tier price updated", "event_id", id.String(), "tier", name, "price", price)
	return nil
}

func (s *service) RecordAttendee(ctx context.Context, eventID, userID uuid.UUID) error {
	return s.repo.AddAttendee(ctx, eventID, userID)
}
