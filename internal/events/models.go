package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the authoritative metadata record for an event. The booking
// pipeline reads it for host attribution and metadata; the only field written
// back by the pipeline is the TicketsSold mirror.
type Event struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string      `json:"title" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	VenueID     uuid.UUID   `json:"venue_id" gorm:"type:uuid;index"`
	StartDate   time.Time   `json:"start_date" gorm:"not null"`
	HostID      uuid.UUID   `json:"host_id" gorm:"type:uuid;index"`
	Status      EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`

	// Denormalized mirror of confirmed tickets, maintained by the
	// reconciliation consumer for display convenience. The ledger stays the
	// source of truth.
	TicketsSold int `json:"tickets_sold" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type EventResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	VenueID     string      `json:"venue_id"`
	StartDate   time.Time   `json:"start_date"`
	HostID      string      `json:"host_id"`
	Status      EventStatus `json:"status"`
	TicketsSold int         `json:"tickets_sold"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	VenueID     string    `json:"venue_id" binding:"required,uuid"`
	StartDate   time.Time `json:"start_date" binding:"required"`
}

// EventMetadata is the subset of the authoritative record the pipeline
// consumes: host attribution and the denormalized display fields.
type EventMetadata struct {
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	HostID    uuid.UUID `json:"host_id"`
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		VenueID:     e.VenueID.String(),
		StartDate:   e.StartDate,
		HostID:      e.HostID.String(),
		Status:      e.Status,
		TicketsSold: e.TicketsSold,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}
