package analytics

import (
	"context"
	"errors"
	"time"

	"hostly/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyCounted signals that the booking's contribution is already
// reflected in the aggregates and the delta was not applied. Callers
// treat it as a clean skip, not a failure.
var ErrAlreadyCounted = errors.New("booking already counted in analytics")

type Repository interface {
	// ApplyDelta applies one booking's contribution to the event
	// aggregate, the host rollup, and the denormalized events mirror, in
	// a single transaction. The booking row's analytics_counted marker
	// is flipped in the same transaction, so a redelivered message finds
	// the marker set and gets ErrAlreadyCounted instead of a second
	// increment.
	ApplyDelta(ctx context.Context, delta Delta) error

	GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*EventAnalytics, error)
	GetHostAnalytics(ctx context.Context, hostID uuid.UUID) (*HostAnalytics, error)
	UpdateEventMetadata(ctx context.Context, eventID uuid.UUID, name string, date time.Time, hostID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ApplyDelta(ctx context.Context, delta Delta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := claimBooking(tx, delta); err != nil {
			return err
		}

		if err := applyEventDelta(tx, delta); err != nil {
			return &apperrors.TransientStoreError{Err: err}
		}

		if err := applyHostDelta(tx, delta); err != nil {
			return &apperrors.TransientStoreError{Err: err}
		}

		// Denormalized display mirror on the event record itself.
		if err := tx.Table("events").
			Where("id = ?", delta.EventID).
			Update("tickets_sold", gorm.Expr("tickets_sold + ?", delta.Tickets)).Error; err != nil {
			return &apperrors.TransientStoreError{Err: err}
		}

		return nil
	})
}

// claimBooking flips the durable dedup marker on the booking row. A
// positive delta requires the marker to be unset, a negative one
// requires it set. Zero rows affected means another delivery already
// claimed this booking.
//
// A single boolean is enough only because changes for one booking are
// delivered in order: messages are keyed by booking ID, so every
// transition of a booking lands on the same partition, and redelivery
// replays a contiguous suffix of that partition. A stale
// PENDING->CONFIRMED can therefore only arrive before or together with
// the CONFIRMED->CANCELLED that unsets the marker, never after it. If
// the keying or replay model changes, the marker needs to become a
// per-transition record.
func claimBooking(tx *gorm.DB, delta Delta) error {
	wasCounted := delta.Tickets < 0

	res := tx.Table("bookings").
		Where("id = ? AND analytics_counted = ?", delta.BookingID, wasCounted).
		Update("analytics_counted", !wasCounted)
	if res.Error != nil {
		return &apperrors.TransientStoreError{Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyCounted
	}
	return nil
}

func applyEventDelta(tx *gorm.DB, delta Delta) error {
	var ea EventAnalytics
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ?", delta.EventID).
		Take(&ea).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		ea = EventAnalytics{
			EventID:          delta.EventID,
			HostID:           delta.HostID,
			EventName:        delta.EventName,
			EventDate:        delta.EventDate,
			TotalTicketsSold: delta.Tickets,
			TotalRevenue:     delta.Revenue,
			TicketBreakdown: TicketBreakdown{
				delta.TicketTypeName: {SoldCount: delta.Tickets, Revenue: delta.Revenue},
			},
		}
		return tx.Create(&ea).Error
	}
	if err != nil {
		return err
	}

	if ea.TicketBreakdown == nil {
		ea.TicketBreakdown = TicketBreakdown{}
	}
	entry := ea.TicketBreakdown[delta.TicketTypeName]
	entry.SoldCount += delta.Tickets
	entry.Revenue += delta.Revenue
	ea.TicketBreakdown[delta.TicketTypeName] = entry

	updates := map[string]interface{}{
		"total_tickets_sold": gorm.Expr("total_tickets_sold + ?", delta.Tickets),
		"total_revenue":      gorm.Expr("total_revenue + ?", delta.Revenue),
		"ticket_breakdown":   ea.TicketBreakdown,
	}
	if delta.EventName != "" {
		updates["event_name"] = delta.EventName
	}
	if !delta.EventDate.IsZero() {
		updates["event_date"] = delta.EventDate
	}
	if delta.HostID != uuid.Nil {
		updates["host_id"] = delta.HostID
	}

	return tx.Model(&EventAnalytics{}).
		Where("event_id = ?", delta.EventID).
		Updates(updates).Error
}

func applyHostDelta(tx *gorm.DB, delta Delta) error {
	ha := HostAnalytics{
		HostID:           delta.HostID,
		TotalTicketsSold: delta.Tickets,
		TotalRevenue:     delta.Revenue,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "host_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_tickets_sold": gorm.Expr("host_analytics.total_tickets_sold + ?", delta.Tickets),
			"total_revenue":      gorm.Expr("host_analytics.total_revenue + ?", delta.Revenue),
			"updated_at":         time.Now(),
		}),
	}).Create(&ha).Error
}

func (r *repository) GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*EventAnalytics, error) {
	var ea EventAnalytics
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&ea).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "event analytics", ID: eventID.String()}
		}
		return nil, err
	}
	return &ea, nil
}

func (r *repository) GetHostAnalytics(ctx context.Context, hostID uuid.UUID) (*HostAnalytics, error) {
	var ha HostAnalytics
	err := r.db.WithContext(ctx).Where("host_id = ?", hostID).First(&ha).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A host with no confirmed bookings simply has zero totals.
			return &HostAnalytics{HostID: hostID}, nil
		}
		return nil, err
	}
	return &ha, nil
}

func (r *repository) UpdateEventMetadata(ctx context.Context, eventID uuid.UUID, name string, date time.Time, hostID uuid.UUID) error {
	updates := map[string]interface{}{}
	if name != "" {
		updates["event_name"] = name
	}
	if !date.IsZero() {
		updates["event_date"] = date
	}
	if hostID != uuid.Nil {
		updates["host_id"] = hostID
	}
	if len(updates) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&EventAnalytics{}).
		Where("event_id = ?", eventID).
		Updates(updates).Error
}
