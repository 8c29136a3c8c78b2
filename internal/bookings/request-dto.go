package bookings

// CreateBookingRequest is the inbound purchase payload. Event name and
// date are client-supplied hints; the transaction stamps the
// authoritative values from the event record before commit.
type CreateBookingRequest struct {
	EventID        string  `json:"eventId" binding:"required,uuid"`
	EventName      string  `json:"eventName"`
	EventDate      string  `json:"eventDate"`
	VenueID        string  `json:"venueId" binding:"required,uuid"`
	ShowID         string  `json:"showId" binding:"required,uuid"`
	TicketTypeID   string  `json:"ticketTypeId" binding:"required,uuid"`
	TicketTypeName string  `json:"ticketTypeName" binding:"required"`
	Quantity       int     `json:"quantity" binding:"required,gt=0"`
	PricePerTicket float64 `json:"pricePerTicket" binding:"required,gt=0"`
	TotalPrice     float64 `json:"totalPrice" binding:"required,gt=0"`
	UserID         string  `json:"userId"`
	UserEmail      string  `json:"userEmail" binding:"required,email"`
	UserName       string  `json:"userName" binding:"required"`
}
