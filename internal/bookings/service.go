package bookings

import (
	"context"
	"time"

	"hostly/pkg/apperrors"
	"hostly/pkg/logger"
	"hostly/pkg/monitoring"

	"github.com/google/uuid"
)

// ChangePublisher delivers before/after booking snapshots to the
// asynchronous reconciliation pipeline. Publishing happens after the
// database commit; a publish failure never rolls back the booking.
type ChangePublisher interface {
	PublishChange(ctx context.Context, change StatusChange) error
}

// Service interface defines the contract for booking ledger operations
type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	ConfirmBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
}

type service struct {
	repo      Repository
	publisher ChangePublisher
	logger    *logger.Logger
}

// NewService creates a new booking service instance
func NewService(repo Repository, publisher ChangePublisher) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		logger:    logger.GetDefault(),
	}
}

func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	if req.Quantity <= 0 {
		return nil, &apperrors.ValidationError{Msg: "quantity must be greater than zero"}
	}

	ticketTypeID, err := uuid.Parse(req.TicketTypeID)
	if err != nil {
		return nil, &apperrors.ValidationError{Msg: "invalid ticket type ID"}
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, &apperrors.ValidationError{Msg: "invalid user ID"}
	}

	booking := &Booking{
		TicketTypeID: ticketTypeID,
		Quantity:     req.Quantity,
		UserID:       userID,
		UserEmail:    req.UserEmail,
		UserName:     req.UserName,
		// Client hints, overwritten by the transaction with the
		// authoritative event and inventory values.
		TicketTypeName: req.TicketTypeName,
		PricePerTicket: req.PricePerTicket,
		TotalPrice:     req.TotalPrice,
		EventName:      req.EventName,
	}
	if d, err := time.Parse(time.RFC3339, req.EventDate); err == nil {
		booking.EventDate = d
	}

	start := time.Now()
	if err := s.repo.CreateWithInventory(ctx, booking); err != nil {
		monitoring.TrackBookingRejected(rejectionReason(err))
		return nil, err
	}
	monitoring.ObserveBookingTransaction(time.Since(start).Seconds())
	monitoring.TrackBookingCreated(booking.EventID.String())

	s.logger.LogBookingCreated(ctx, booking.ID.String(), booking.EventID.String(), booking.TicketTypeID.String(), booking.Quantity)
	s.publish(ctx, booking, "", booking.Status)

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ConfirmBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	before, booking, err := s.repo.TransitionStatus(ctx, id, StatusConfirmed)
	if err != nil {
		return nil, err
	}

	if before == booking.Status {
		// Already confirmed, nothing changed and nothing to publish.
		return booking, nil
	}

	s.logger.LogBookingTransition(ctx, booking.ID.String(), before.String(), booking.Status.String())
	s.publish(ctx, booking, before, booking.Status)

	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	before, booking, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	if before == booking.Status {
		return booking, nil
	}

	s.logger.LogBookingTransition(ctx, booking.ID.String(), before.String(), booking.Status.String())
	s.publish(ctx, booking, before, booking.Status)

	return booking, nil
}

func (s *service) publish(ctx context.Context, booking *Booking, before, after Status) {
	if s.publisher == nil {
		return
	}

	change := StatusChange{
		BookingID:      booking.ID,
		EventID:        booking.EventID,
		VenueID:        booking.VenueID,
		ShowID:         booking.ShowID,
		TicketTypeID:   booking.TicketTypeID,
		TicketTypeName: booking.TicketTypeName,
		Quantity:       booking.Quantity,
		PricePerTicket: booking.PricePerTicket,
		HostID:         booking.HostID,
		Before:         before,
		After:          after,
		OccurredAt:     time.Now().UTC(),
	}

	// The booking is committed. Losing a change message is recoverable:
	// the backfill sweep re-emits confirmed bookings whose counted
	// marker is still unset, and the marker keeps the re-send
	// exactly-once.
	if err := s.publisher.PublishChange(ctx, change); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to publish booking change", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
			"before":     before.String(),
			"after":      after.String(),
		})
	}
}

func rejectionReason(err error) string {
	switch {
	case apperrors.IsInsufficientInventory(err):
		return "insufficient_inventory"
	case apperrors.IsValidation(err):
		return "validation"
	case apperrors.IsNotFound(err):
		return "not_found"
	case apperrors.IsHostResolution(err):
		return "host_resolution"
	default:
		return "internal"
	}
}
