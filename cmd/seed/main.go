package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ticketly/internal/events"
	"ticketly/internal/inventory"
	"ticketly/internal/shared/clock"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Ticketly Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"holds",
		"booking_units",
		"bookings",
		"event_attendees",
		"inventory_units",
		"unit_types",
		"events",
	}

	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll creates a published demo event with a small seat map
func (s *Seeder) SeedAll() error {
	ctx := context.Background()
	appLogger := logger.GetDefault()

	eventRepo := events.NewRepository(s.db.GetPostgreSQL())
	catalog := inventory.NewService(inventory.NewRepository(s.db.GetPostgreSQL()))
	eventService := events.NewService(eventRepo, catalog, 30*time.Second, clock.NewSystem(), appLogger)

	unitTypes := []inventory.UnitTypeSpec{
		{Name: "balcony", Price: 45},
		{Name: "floor", Price: 80},
		{Name: "vip", Price: 150},
	}

	var units []inventory.UnitSpec
	for _, row := range []string{"A", "B"} {
		for seat := 1; seat <= 10; seat++ {
			units = append(units, inventory.UnitSpec{
				UnitID:   fmt.Sprintf("%s-%d", row, seat),
				UnitType: "balcony",
			})
		}
	}
	for seat := 1; seat <= 20; seat++ {
		units = append(units, inventory.UnitSpec{
			UnitID:   fmt.Sprintf("F-%d", seat),
			UnitType: "floor",
		})
	}
	for seat := 1; seat <= 4; seat++ {
		units = append(units, inventory.UnitSpec{
			UnitID:   fmt.Sprintf("V-%d", seat),
			UnitType: "vip",
		})
	}

	resp, err := eventService.CreateEvent(ctx, &events.CreateEventRequest{
		Name:        "Midnight Jazz Session",
		Description: "An intimate evening of live jazz.",
		Venue:       "The Blue Room",
		StartsAt:    time.Now().UTC().Add(14 * 24 * time.Hour),
		UnitTypes:   unitTypes,
		Units:       units,
	}, uuid.New())
	if err != nil {
		return fmt.Errorf("failed to create demo event: %w", err)
	}

	eventID, err := uuid.Parse(resp.ID)
	if err != nil {
		return err
	}
	if err := eventService.UpdateStatus(ctx, eventID, events.StatusPublished); err != nil {
		return fmt.Errorf("failed to publish demo event: %w", err)
	}

	fmt.Printf("   Created event %s (%d units)\n", resp.ID, len(units))
	return nil
}
