package reconciler

import (
	"context"
	"time"

	"hostly/internal/bookings"
	"hostly/pkg/logger"
	"hostly/pkg/monitoring"
)

// UncountedSource lists confirmed bookings the aggregates have not
// absorbed yet.
type UncountedSource interface {
	ListUncountedConfirmed(ctx context.Context, limit int) ([]bookings.Booking, error)
}

// Backfill is the safety net for the publish path. A booking change is
// published only after its transaction commits, so a broker outage or a
// crash between commit and publish can strand a confirmed booking with
// its counted marker unset. The sweep finds those rows and re-emits
// their counting transition; the marker makes the re-emission
// exactly-once even when the original message was merely delayed.
type Backfill struct {
	source    UncountedSource
	publisher bookings.ChangePublisher
	interval  time.Duration
	batchSize int
	logger    *logger.Logger
}

func NewBackfill(source UncountedSource, publisher bookings.ChangePublisher, interval time.Duration) *Backfill {
	return &Backfill{
		source:    source,
		publisher: publisher,
		interval:  interval,
		batchSize: 100,
		logger:    logger.GetDefault(),
	}
}

// Start runs the sweep loop until the context is cancelled. The first
// sweep runs immediately so bookings stranded by a crash are recovered
// on boot, not one interval later.
func (b *Backfill) Start(ctx context.Context) {
	b.sweep(ctx)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("backfill sweep shutting down")
			return
		case <-ticker.C:
			b.sweep(ctx)
		}
	}
}

func (b *Backfill) sweep(ctx context.Context) {
	if _, err := b.RunOnce(ctx); err != nil {
		b.logger.ErrorWithContext(ctx, "backfill sweep failed", err, nil)
	}
}

// RunOnce republishes the counting transition for every confirmed
// booking still unmarked and returns how many were re-emitted. A
// publish failure skips that booking; the next sweep picks it up again.
func (b *Backfill) RunOnce(ctx context.Context) (int, error) {
	stranded, err := b.source.ListUncountedConfirmed(ctx, b.batchSize)
	if err != nil {
		return 0, err
	}

	republished := 0
	for i := range stranded {
		booking := &stranded[i]

		change := bookings.StatusChange{
			BookingID:      booking.ID,
			EventID:        booking.EventID,
			VenueID:        booking.VenueID,
			ShowID:         booking.ShowID,
			TicketTypeID:   booking.TicketTypeID,
			TicketTypeName: booking.TicketTypeName,
			Quantity:       booking.Quantity,
			PricePerTicket: booking.PricePerTicket,
			HostID:         booking.HostID,
			Before:         bookings.StatusPending,
			After:          booking.Status,
			OccurredAt:     time.Now().UTC(),
		}

		if err := b.publisher.PublishChange(ctx, change); err != nil {
			b.logger.ErrorWithContext(ctx, "backfill republish failed", err, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
			continue
		}

		monitoring.TrackBackfillRepublished()
		republished++
	}

	if republished > 0 {
		b.logger.Info("backfill republished booking changes", "count", republished)
	}

	return republished, nil
}
