package main

import (
	"fmt"
	"log"
	"time"

	"hostly/internal/events"
	"hostly/internal/inventory"
	"hostly/internal/shared/config"
	"hostly/internal/shared/database"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Hostly Database Seeder...")

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
		"host_analytics",
		"event_analytics",
		"bookings",
		"ticket_types",
		"events",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean table %s: %w", table, err)
		}
	}

	return nil
}

// SeedAll creates a demo host with published events and open inventory
func (s *Seeder) SeedAll() error {
	hostID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	venueID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	demoEvents := []struct {
		title       string
		description string
		daysAhead   int
		tickets     []inventory.TicketType
	}{
		{
			title:       "Indie Rock Night",
			description: "Three local bands, one stage.",
			daysAhead:   14,
			tickets: []inventory.TicketType{
				{Name: "GA", Price: 100.00, AvailableQuantity: 500},
				{Name: "VIP", Price: 250.00, AvailableQuantity: 50},
			},
		},
		{
			title:       "Go Meetup: Concurrency Patterns",
			description: "Talks and pizza.",
			daysAhead:   30,
			tickets: []inventory.TicketType{
				{Name: "Standard", Price: 15.00, AvailableQuantity: 120},
			},
		},
		{
			title:       "Summer Food Festival",
			description: "Forty vendors across two days.",
			daysAhead:   60,
			tickets: []inventory.TicketType{
				{Name: "Day Pass", Price: 35.00, AvailableQuantity: 2000},
				{Name: "Weekend Pass", Price: 60.00, AvailableQuantity: 800},
			},
		},
	}

	for _, de := range demoEvents {
		event := events.Event{
			Title:       de.title,
			Description: de.description,
			VenueID:     venueID,
			StartDate:   time.Now().AddDate(0, 0, de.daysAhead),
			HostID:      hostID,
			Status:      events.StatusPublished,
		}
		if err := s.db.GetPostgreSQL().Create(&event).Error; err != nil {
			return fmt.Errorf("failed to seed event %q: %w", de.title, err)
		}

		showID := uuid.New()
		for _, tt := range de.tickets {
			tt.EventID = event.ID
			tt.VenueID = venueID
			tt.ShowID = showID
			if err := s.db.GetPostgreSQL().Create(&tt).Error; err != nil {
				return fmt.Errorf("failed to seed ticket type %q: %w", tt.Name, err)
			}
		}

		fmt.Printf("  • %s (%d ticket types)\n", de.title, len(de.tickets))
	}

	fmt.Printf("\nDemo host ID: %s\n", hostID)
	return nil
}
