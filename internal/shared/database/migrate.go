package database

import (
	"hostly/internal/analytics"
	"hostly/internal/bookings"
	"hostly/internal/events"
	"hostly/internal/inventory"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&events.Event{},
		&inventory.TicketType{},
		&bookings.Booking{},
		&analytics.EventAnalytics{},
		&analytics.HostAnalytics{},
	)
}
