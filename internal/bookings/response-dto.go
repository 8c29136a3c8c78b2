package bookings

import (
	"time"

	"github.com/google/uuid"
)

// CreateBookingResponse is the success body for POST /bookings.
type CreateBookingResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId"`
}

type BookingResponse struct {
	ID             uuid.UUID `json:"id"`
	EventID        uuid.UUID `json:"event_id"`
	EventName      string    `json:"event_name"`
	EventDate      time.Time `json:"event_date"`
	TicketTypeName string    `json:"ticket_type_name"`
	Quantity       int       `json:"quantity"`
	PricePerTicket float64   `json:"price_per_ticket"`
	TotalPrice     float64   `json:"total_price"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		EventID:        b.EventID,
		EventName:      b.EventName,
		EventDate:      b.EventDate,
		TicketTypeName: b.TicketTypeName,
		Quantity:       b.Quantity,
		PricePerTicket: b.PricePerTicket,
		TotalPrice:     b.TotalPrice,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
}
