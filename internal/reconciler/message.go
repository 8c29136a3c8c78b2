package reconciler

import (
	"encoding/json"
	"time"

	"hostly/internal/bookings"

	"github.com/google/uuid"
)

// Change is the wire form of a booking's before/after snapshot, one
// message per committed ledger write.
type Change struct {
	BookingID      uuid.UUID `json:"bookingId"`
	EventID        uuid.UUID `json:"eventId"`
	VenueID        uuid.UUID `json:"venueId"`
	ShowID         uuid.UUID `json:"showId"`
	TicketTypeID   uuid.UUID `json:"ticketTypeId"`
	TicketTypeName string    `json:"ticketTypeName"`
	Quantity       int       `json:"quantity"`
	PricePerTicket float64   `json:"pricePerTicket"`
	HostID         uuid.UUID `json:"hostId"`
	Before         string    `json:"before"`
	After          string    `json:"after"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func changeFromStatusChange(sc bookings.StatusChange) Change {
	return Change{
		BookingID:      sc.BookingID,
		EventID:        sc.EventID,
		VenueID:        sc.VenueID,
		ShowID:         sc.ShowID,
		TicketTypeID:   sc.TicketTypeID,
		TicketTypeName: sc.TicketTypeName,
		Quantity:       sc.Quantity,
		PricePerTicket: sc.PricePerTicket,
		HostID:         sc.HostID,
		Before:         sc.Before.String(),
		After:          sc.After.String(),
		OccurredAt:     sc.OccurredAt,
	}
}

func (c Change) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

func changeFromJSON(data []byte) (Change, error) {
	var c Change
	err := json.Unmarshal(data, &c)
	return c, err
}

// GetPartitionKey keeps every message for one booking on the same
// partition so its transitions are consumed in order.
func (c Change) GetPartitionKey() string {
	return c.BookingID.String()
}

func (c Change) beforeStatus() bookings.Status {
	return bookings.Status(c.Before)
}

func (c Change) afterStatus() bookings.Status {
	return bookings.Status(c.After)
}
