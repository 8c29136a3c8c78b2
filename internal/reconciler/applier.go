package reconciler

import (
	"context"
	"errors"

	"hostly/internal/analytics"
	"hostly/internal/events"
	"hostly/pkg/apperrors"
	"hostly/pkg/logger"
	"hostly/pkg/monitoring"

	"github.com/google/uuid"
)

// EventSource resolves authoritative event metadata for host
// attribution and aggregate stamping.
type EventSource interface {
	GetEventMetadata(ctx context.Context, id uuid.UUID) (*events.EventMetadata, error)
}

// Applier is the reconciliation handler. It receives before/after
// booking snapshots, decides whether the transition moves analytics,
// and applies the delta exactly once.
//
// Delivery is at-least-once: the same change can arrive any number of
// times, out of order, or arbitrarily late. The status-transition guard
// filters re-saves, and the durable counted marker inside
// analytics.ApplyDelta absorbs true redeliveries.
type Applier struct {
	analytics analytics.Service
	events    EventSource
	logger    *logger.Logger
}

func NewApplier(analyticsService analytics.Service, eventSource EventSource) *Applier {
	return &Applier{
		analytics: analyticsService,
		events:    eventSource,
		logger:    logger.GetDefault(),
	}
}

func (a *Applier) Apply(ctx context.Context, change Change) error {
	before := change.beforeStatus()
	after := change.afterStatus()

	var direction int
	switch {
	case after.IsConfirmedEquivalent() && !before.IsConfirmedEquivalent():
		direction = 1
	case before.IsConfirmedEquivalent() && !after.IsConfirmedEquivalent():
		direction = -1
	default:
		// Either the booking never entered a counted state, or it was
		// already counted and this write did not change that. Counting
		// again here is exactly the bug this guard exists to prevent.
		monitoring.TrackReconcileSkipped()
		a.logger.LogReconcileSkipped(ctx, change.BookingID.String(), change.Before, change.After, "no counting transition")
		return nil
	}

	hostID := change.HostID
	var meta *events.EventMetadata
	if a.events != nil {
		m, err := a.events.GetEventMetadata(ctx, change.EventID)
		if err == nil {
			meta = m
		} else if hostID == uuid.Nil {
			// Without a host the delta cannot be attributed. Surfacing
			// the error makes the broker redeliver instead of silently
			// dropping the booking from analytics.
			return &apperrors.HostResolutionError{
				BookingID: change.BookingID.String(),
				EventID:   change.EventID.String(),
			}
		}
	}
	if hostID == uuid.Nil {
		if meta == nil || meta.HostID == uuid.Nil {
			return &apperrors.HostResolutionError{
				BookingID: change.BookingID.String(),
				EventID:   change.EventID.String(),
			}
		}
		hostID = meta.HostID
	}

	// Host revenue is ticket price times quantity. The stored booking
	// total may include platform fees and is not used here.
	tickets := change.Quantity
	revenue := change.PricePerTicket * float64(change.Quantity)

	delta := analytics.Delta{
		BookingID:      change.BookingID,
		EventID:        change.EventID,
		HostID:         hostID,
		TicketTypeName: change.TicketTypeName,
		Tickets:        direction * tickets,
		Revenue:        float64(direction) * revenue,
	}
	if meta != nil {
		delta.EventName = meta.Title
		delta.EventDate = meta.StartDate
	}

	if err := a.analytics.ApplyDelta(ctx, delta); err != nil {
		if errors.Is(err, analytics.ErrAlreadyCounted) {
			monitoring.TrackReconcileSkipped()
			a.logger.LogReconcileSkipped(ctx, change.BookingID.String(), change.Before, change.After, "already counted")
			return nil
		}
		return err
	}

	if direction > 0 {
		monitoring.TrackReconcileApplied("increment")
	} else {
		monitoring.TrackReconcileApplied("decrement")
	}
	a.logger.LogAnalyticsApplied(ctx, change.BookingID.String(), change.EventID.String(), hostID.String(), delta.Tickets, delta.Revenue)

	return nil
}
