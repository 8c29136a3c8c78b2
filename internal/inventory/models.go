package inventory

import (
	"time"

	"github.com/google/uuid"
)

// TicketType is the inventory row the booking transaction locks and
// decrements. AvailableQuantity plus SoldCount is constant for the
// lifetime of the row.
type TicketType struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	EventID           uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	VenueID           uuid.UUID `json:"venue_id" gorm:"type:uuid;not null"`
	ShowID            uuid.UUID `json:"show_id" gorm:"type:uuid;not null;index"`
	Name              string    `json:"name" gorm:"type:varchar(100);not null"`
	Price             float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	AvailableQuantity int       `json:"available_quantity" gorm:"not null;check:available_quantity >= 0"`
	SoldCount         int       `json:"sold_count" gorm:"not null;default:0"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (TicketType) TableName() string {
	return "ticket_types"
}

type CreateTicketTypeRequest struct {
	VenueID  string  `json:"venue_id" binding:"required,uuid"`
	ShowID   string  `json:"show_id" binding:"required,uuid"`
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
}

type TicketTypeResponse struct {
	ID                uuid.UUID `json:"id"`
	EventID           uuid.UUID `json:"event_id"`
	ShowID            uuid.UUID `json:"show_id"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	AvailableQuantity int       `json:"available_quantity"`
	SoldCount         int       `json:"sold_count"`
}

func (t *TicketType) ToResponse() TicketTypeResponse {
	return TicketTypeResponse{
		ID:                t.ID,
		EventID:           t.EventID,
		ShowID:            t.ShowID,
		Name:              t.Name,
		Price:             t.Price,
		AvailableQuantity: t.AvailableQuantity,
		SoldCount:         t.SoldCount,
	}
}
