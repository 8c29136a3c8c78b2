package analytics

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BreakdownEntry holds the per-ticket-type slice of an event's totals.
type BreakdownEntry struct {
	SoldCount int     `json:"soldCount"`
	Revenue   float64 `json:"revenue"`
}

// TicketBreakdown maps ticket type name to its sold/revenue slice.
// Stored as a jsonb column.
type TicketBreakdown map[string]BreakdownEntry

func (b TicketBreakdown) Value() (driver.Value, error) {
	if b == nil {
		return "{}", nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (b *TicketBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = TicketBreakdown{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for ticket breakdown: %T", value)
	}

	return json.Unmarshal(data, b)
}

// EventAnalytics is the per-event denormalized counter document. It is
// derived from the booking ledger and never written by request handlers
// directly.
type EventAnalytics struct {
	EventID          uuid.UUID       `json:"event_id" gorm:"type:uuid;primary_key"`
	HostID           uuid.UUID       `json:"host_id" gorm:"type:uuid;index"`
	EventName        string          `json:"event_name" gorm:"type:varchar(255)"`
	EventDate        time.Time       `json:"event_date"`
	TotalTicketsSold int             `json:"total_tickets_sold" gorm:"not null;default:0"`
	TotalRevenue     float64         `json:"total_revenue" gorm:"type:decimal(12,2);not null;default:0"`
	TicketBreakdown  TicketBreakdown `json:"ticket_breakdown" gorm:"type:jsonb;default:'{}'"`
	CreatedAt        time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (EventAnalytics) TableName() string {
	return "event_analytics"
}

// HostAnalytics is the per-host rollup across all of the host's events.
type HostAnalytics struct {
	HostID           uuid.UUID `json:"host_id" gorm:"type:uuid;primary_key"`
	TotalTicketsSold int       `json:"total_tickets_sold" gorm:"not null;default:0"`
	TotalRevenue     float64   `json:"total_revenue" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (HostAnalytics) TableName() string {
	return "host_analytics"
}

// Delta is one booking's contribution to the aggregates. Tickets and
// Revenue are signed: a cancellation of a counted booking applies the
// negative delta.
type Delta struct {
	BookingID      uuid.UUID
	EventID        uuid.UUID
	HostID         uuid.UUID
	TicketTypeName string
	Tickets        int
	Revenue        float64
	EventName      string
	EventDate      time.Time
}
