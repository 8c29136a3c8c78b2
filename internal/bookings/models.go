package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the append-only ledger record for a purchase attempt.
// Inventory is reserved at creation time; analytics counters move only
// when the record transitions into a confirmed-equivalent status, and
// AnalyticsCounted records durably that the counting already happened.
type Booking struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	EventID        uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	VenueID        uuid.UUID `json:"venue_id" gorm:"type:uuid;not null"`
	ShowID         uuid.UUID `json:"show_id" gorm:"type:uuid;not null"`
	TicketTypeID   uuid.UUID `json:"ticket_type_id" gorm:"type:uuid;not null;index"`
	TicketTypeName string    `json:"ticket_type_name" gorm:"type:varchar(100);not null"`
	Quantity       int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	PricePerTicket float64   `json:"price_per_ticket" gorm:"type:decimal(10,2);not null"`
	TotalPrice     float64   `json:"total_price" gorm:"type:decimal(10,2);not null"`
	HostID         uuid.UUID `json:"host_id" gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	UserEmail      string    `json:"user_email" gorm:"type:varchar(255)"`
	UserName       string    `json:"user_name" gorm:"type:varchar(255)"`
	Status         Status    `json:"status" gorm:"type:varchar(20);not null;index"`
	EventName      string    `json:"event_name" gorm:"type:varchar(255)"`
	EventDate      time.Time `json:"event_date"`

	// AnalyticsCounted is set in the same transaction that applies the
	// analytics increments for this booking. It is the durable dedup
	// marker for redelivered status-change messages.
	AnalyticsCounted bool `json:"-" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

// StatusChange is the before/after snapshot published after every
// committed write to a booking record.
type StatusChange struct {
	BookingID      uuid.UUID
	EventID        uuid.UUID
	VenueID        uuid.UUID
	ShowID         uuid.UUID
	TicketTypeID   uuid.UUID
	TicketTypeName string
	Quantity       int
	PricePerTicket float64
	HostID         uuid.UUID
	Before         Status
	After          Status
	OccurredAt     time.Time
}
