package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service interface defines the contract for inventory business logic
type Service interface {
	// DefineConfiguration creates the price tiers and sellable units for an
	// event. Called once when the organizer defines the seating/GA layout.
	DefineConfiguration(ctx context.Context, eventID uuid.UUID, types []UnitTypeSpec, units []UnitSpec) error

	// ResolveSelection validates the requested unit labels against the
	// event's configuration and resolves their current tier prices. The
	// returned snapshots are what gets frozen onto the booking.
	ResolveSelection(ctx context.Context, eventID uuid.UUID, unitIDs []string) ([]UnitSelection, error)

	// ListUnits returns every unit of an event with its current tier price.
	ListUnits(ctx context.Context, eventID uuid.UUID) ([]UnitSelection, error)

	// UpdateTierPrice changes a price tier. Only future reservations see the
	// new price; existing bookings keep their snapshots.
	UpdateTierPrice(ctx context.Context, eventID uuid.UUID, name string, price float64) error
}

type service struct {
	repo Repository
}

// NewService creates a new inventory service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) DefineConfiguration(ctx context.Context, eventID uuid.UUID, typeSpecs []UnitTypeSpec, unitSpecs []UnitSpec) error {
	if len(typeSpecs) == 0 {
		return fmt.Errorf("at least one unit type is required")
	}
	if len(unitSpecs) == 0 {
		return fmt.Errorf("at least one unit is required")
	}

	typeNames := make(map[string]bool, len(typeSpecs))
	types := make([]UnitType, 0, len(typeSpecs))
	for _, spec := range typeSpecs {
		if typeNames[spec.Name] {
			return fmt.Errorf("duplicate unit type %q", spec.Name)
		}
		typeNames[spec.Name] = true
		types = append(types, UnitType{
			EventID: eventID,
			Name:    spec.Name,
			Price:   spec.Price,
		})
	}

	unitLabels := make(map[string]bool, len(unitSpecs))
	units := make([]Unit, 0, len(unitSpecs))
	for _, spec := range unitSpecs {
		if unitLabels[spec.UnitID] {
			return fmt.Errorf("duplicate unit %q", spec.UnitID)
		}
		if !typeNames[spec.UnitType] {
			return fmt.Errorf("unit %q references unknown unit type %q", spec.UnitID, spec.UnitType)
		}
		unitLabels[spec.UnitID] = true
		units = append(units, Unit{
			EventID:  eventID,
			UnitID:   spec.UnitID,
			UnitType: spec.UnitType,
		})
	}

	if err := s.repo.CreateConfiguration(ctx, types, units); err != nil {
		return fmt.Errorf("failed to create inventory configuration: %w", err)
	}
	return nil
}

func (s *service) ResolveSelection(ctx context.Context, eventID uuid.UUID, unitIDs []string) ([]UnitSelection, error) {
	if len(unitIDs) == 0 {
		return nil, fmt.Errorf("no units requested")
	}

	seen := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		if seen[id] {
			return nil, fmt.Errorf("duplicate unit %q in request", id)
		}
		seen[id] = true
	}

	units, err := s.repo.GetUnitsByLabels(ctx, eventID, unitIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}

	found := make(map[string]Unit, len(units))
	for _, u := range units {
		found[u.UnitID] = u
	}
	for _, id := range unitIDs {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("unknown unit %q for this event", id)
		}
	}

	prices, err := s.priceIndex(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// Preserve request order in the selection
	selection := make([]UnitSelection, 0, len(unitIDs))
	for _, id := range unitIDs {
		unit := found[id]
		price, ok := prices[unit.UnitType]
		if !ok {
			return nil, fmt.Errorf("unit %q references unknown unit type %q", id, unit.UnitType)
		}
		selection = append(selection, UnitSelection{
			UnitID:    unit.UnitID,
			UnitType:  unit.UnitType,
			UnitPrice: price,
		})
	}
	return selection, nil
}

func (s *service) ListUnits(ctx context.Context, eventID uuid.UUID) ([]UnitSelection, error) {
	units, err := s.repo.GetUnitsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}

	prices, err := s.priceIndex(ctx, eventID)
	if err != nil {
		return nil, err
	}

	selection := make([]UnitSelection, 0, len(units))
	for _, u := range units {
		selection = append(selection, UnitSelection{
			UnitID:    u.UnitID,
			UnitType:  u.UnitType,
			UnitPrice: prices[u.UnitType],
		})
	}
	return selection, nil
}

func (s *service) UpdateTierPrice(ctx context.Context, eventID uuid.UUID, name string, price float64) error {
	if price < 0 {
		return fmt.Errorf("price must be non-negative")
	}
	prices, err := s.priceIndex(ctx, eventID)
	if err != nil {
		return err
	}
	if _, ok := prices[name]; !ok {
		return fmt.Errorf("unknown unit type %q", name)
	}
	return s.repo.UpdateUnitTypePrice(ctx, eventID, name, price)
}

func (s *service) priceIndex(ctx context.Context, eventID uuid.UUID) (map[string]float64, error) {
	types, err := s.repo.GetUnitTypesByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit types: %w", err)
	}
	prices := make(map[string]float64, len(types))
	for _, t := range types {
		prices[t.Name] = t.Price
	}
	return prices, nil
}
