package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketly/internal/bookings"
	"ticketly/internal/inventory"
	"ticketly/internal/shared/clock"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	events    map[uuid.UUID]*Event
	attendees map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: make(map[uuid.UUID]*Event), attendees: make(map[string]bool)}
}

func (r *fakeRepo) Create(ctx context.Context, event *Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return e, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	e, ok := r.events[id]
	if !ok {
		return ErrEventNotFound
	}
	e.Status = status
	return nil
}

func (r *fakeRepo) AddAttendee(ctx context.Context, eventID, userID uuid.UUID) error {
	r.attendees[eventID.String()+"/"+userID.String()] = true
	return nil
}

func (r *fakeRepo) CountAttendees(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var n int64
	for key := range r.attendees {
		if len(key) > 36 && key[:36] == eventID.String() {
			n++
		}
	}
	return n, nil
}

type fakeCatalog struct {
	configured map[uuid.UUID]int
	prices     map[string]float64
	err        error
}

func (c *fakeCatalog) DefineConfiguration(ctx context.Context, eventID uuid.UUID, types []inventory.UnitTypeSpec, units []inventory.UnitSpec) error {
	if c.err != nil {
		return c.err
	}
	if c.configured == nil {
		c.configured = make(map[uuid.UUID]int)
	}
	c.configured[eventID] = len(units)
	return nil
}

func (c *fakeCatalog) UpdateTierPrice(ctx context.Context, eventID uuid.UUID, name string, price float64) error {
	if c.err != nil {
		return c.err
	}
	if c.prices == nil {
		c.prices = make(map[string]float64)
	}
	c.prices[name] = price
	return nil
}

func (c *fakeCatalog) ResolveSelection(ctx context.Context, eventID uuid.UUID, unitIDs []string) ([]inventory.UnitSelection, error) {
	return nil, errors.New("not used")
}

func (c *fakeCatalog) ListUnits(ctx context.Context, eventID uuid.UUID) ([]inventory.UnitSelection, error) {
	return nil, errors.New("not used")
}

type fakeAvailability struct {
	units []inventory.UnitAvailability
	err   error
}

func (f *fakeAvailability) GetEventAvailability(ctx context.Context, eventID uuid.UUID) ([]inventory.UnitAvailability, error) {
	return f.units, f.err
}

func newTestService(t *testing.T) (Service, *fakeRepo, *fakeCatalog, clock.Clock) {
	t.Helper()
	repo := newFakeRepo()
	catalog := &fakeCatalog{}
	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(repo, catalog, 30*time.Second, clk, logger.New())
	return svc, repo, catalog, clk
}

func validCreateRequest(startsAt time.Time) *CreateEventRequest {
	return &CreateEventRequest{
		Name:     "Night Show",
		Venue:    "Grand Hall",
		StartsAt: startsAt,
		UnitTypes: []inventory.UnitTypeSpec{
			{Name: "balcony", Price: 45},
		},
		Units: []inventory.UnitSpec{
			{UnitID: "A-1", UnitType: "balcony"},
			{UnitID: "A-2", UnitType: "balcony"},
		},
	}
}

func TestCreateEventDefinesInventory(t *testing.T) {
	svc, repo, catalog, clk := newTestService(t)

	resp, err := svc.CreateEvent(context.Background(), validCreateRequest(clk.Now().Add(24*time.Hour)), uuid.New())
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if resp.Status != StatusDraft {
		t.Errorf("status = %s, want draft", resp.Status)
	}

	eventID, _ := uuid.Parse(resp.ID)
	if _, ok := repo.events[eventID]; !ok {
		t.Error("event not persisted")
	}
	if catalog.configured[eventID] != 2 {
		t.Errorf("configured %d units, want 2", catalog.configured[eventID])
	}
}

func TestCreateEventRejectsPastStart(t *testing.T) {
	svc, _, _, clk := newTestService(t)

	_, err := svc.CreateEvent(context.Background(), validCreateRequest(clk.Now().Add(-time.Hour)), uuid.New())
	if err == nil {
		t.Fatal("expected error for past start time")
	}
}

func TestGetEventIncludesAvailability(t *testing.T) {
	svc, repo, _, clk := newTestService(t)
	eventID := uuid.New()
	repo.events[eventID] = &Event{ID: eventID, Name: "Show", Status: StatusPublished, StartsAt: clk.Now().Add(time.Hour)}

	svc.SetAvailabilityProvider(&fakeAvailability{units: []inventory.UnitAvailability{
		{UnitID: "A-1", UnitType: "balcony", Price: 45, State: inventory.UnitStateAvailable},
	}})

	resp, err := svc.GetEvent(context.Background(), eventID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if len(resp.Availability) != 1 || resp.Availability[0].UnitID != "A-1" {
		t.Errorf("availability = %+v", resp.Availability)
	}
}

func TestGetEventSurvivesAvailabilityFailure(t *testing.T) {
	svc, repo, _, clk := newTestService(t)
	eventID := uuid.New()
	repo.events[eventID] = &Event{ID: eventID, Name: "Show", Status: StatusPublished, StartsAt: clk.Now().Add(time.Hour)}

	svc.SetAvailabilityProvider(&fakeAvailability{err: errors.New("db down")})

	resp, err := svc.GetEvent(context.Background(), eventID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if resp.Availability != nil {
		t.Error("expected no availability on provider failure")
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	eventID := uuid.New()
	repo.events[eventID] = &Event{ID: eventID, Status: StatusDraft}

	if err := svc.UpdateStatus(context.Background(), eventID, StatusPublished); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if repo.events[eventID].Status != StatusPublished {
		t.Errorf("status = %s, want published", repo.events[eventID].Status)
	}

	if err := svc.UpdateStatus(context.Background(), eventID, EventStatus("archived")); err == nil {
		t.Error("expected error for invalid status")
	}
	if err := svc.UpdateStatus(context.Background(), uuid.New(), StatusPublished); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}
}

func TestUpdateTierPrice(t *testing.T) {
	svc, repo, catalog, _ := newTestService(t)
	eventID := uuid.New()
	repo.events[eventID] = &Event{ID: eventID, Status: StatusPublished}

	if err := svc.UpdateTierPrice(context.Background(), eventID, "balcony", 55); err != nil {
		t.Fatalf("UpdateTierPrice failed: %v", err)
	}
	if catalog.prices["balcony"] != 55 {
		t.Errorf("price = %v, want 55", catalog.prices["balcony"])
	}

	if err := svc.UpdateTierPrice(context.Background(), uuid.New(), "balcony", 55); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}
}

func TestBookingAdapter(t *testing.T) {
	svc, repo, _, clk := newTestService(t)
	adapter := NewBookingAdapter(repo, svc)

	published := uuid.New()
	repo.events[published] = &Event{ID: published, Name: "Show", Status: StatusPublished, StartsAt: clk.Now().Add(time.Hour)}
	draft := uuid.New()
	repo.events[draft] = &Event{ID: draft, Name: "Draft", Status: StatusDraft, StartsAt: clk.Now().Add(time.Hour)}

	info, err := adapter.GetEventInfo(context.Background(), published)
	if err != nil {
		t.Fatalf("GetEventInfo failed: %v", err)
	}
	if !info.Bookable {
		t.Error("published event should be bookable")
	}

	info, err = adapter.GetEventInfo(context.Background(), draft)
	if err != nil {
		t.Fatalf("GetEventInfo failed: %v", err)
	}
	if info.Bookable {
		t.Error("draft event must not be bookable")
	}

	if _, err := adapter.GetEventInfo(context.Background(), uuid.New()); !errors.Is(err, bookings.ErrEventNotBookable) {
		t.Errorf("err = %v, want ErrEventNotBookable for missing event", err)
	}

	userID := uuid.New()
	if err := adapter.MarkAttendee(context.Background(), published, userID); err != nil {
		t.Fatalf("MarkAttendee failed: %v", err)
	}
	if n, _ := repo.CountAttendees(context.Background(), published); n != 1 {
		t.Errorf("attendees = %d, want 1", n)
	}
}
