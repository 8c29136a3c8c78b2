package bookings

import (
	"context"
	"errors"
	"time"

	"hostly/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// CreateWithInventory runs the whole purchase as one transaction:
	// lock inventory, check availability, insert the PENDING ledger row,
	// move the inventory counters, stamp authoritative event metadata.
	// Either everything commits or nothing does.
	CreateWithInventory(ctx context.Context, booking *Booking) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error)

	// ListUncountedConfirmed returns confirmed-equivalent bookings whose
	// analytics contribution has not been applied yet. Feeds the
	// backfill sweep that recovers transitions lost between commit and
	// publish.
	ListUncountedConfirmed(ctx context.Context, limit int) ([]Booking, error)

	// TransitionStatus moves the booking to the given status and returns
	// the status it held before the write.
	TransitionStatus(ctx context.Context, id uuid.UUID, to Status) (Status, *Booking, error)

	// Cancel transitions to CANCELLED and restocks the inventory the
	// booking was holding.
	Cancel(ctx context.Context, id uuid.UUID) (Status, *Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ticketRow and eventRow are scan targets for the raw table reads done
// inside the booking transaction. The ledger owns no foreign models.
type ticketRow struct {
	ID                uuid.UUID
	EventID           uuid.UUID
	VenueID           uuid.UUID
	ShowID            uuid.UUID
	Name              string
	Price             float64
	AvailableQuantity int
	SoldCount         int
}

type eventRow struct {
	ID        uuid.UUID
	Title     string
	StartDate time.Time
	HostID    uuid.UUID
	Status    string
}

func (r *repository) CreateWithInventory(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tt ticketRow
		err := tx.Table("ticket_types").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", booking.TicketTypeID).
			Take(&tt).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperrors.NotFoundError{Resource: "ticket type", ID: booking.TicketTypeID.String()}
			}
			return &apperrors.TransientStoreError{Err: err}
		}

		if tt.AvailableQuantity < booking.Quantity {
			return &apperrors.InsufficientInventoryError{Available: tt.AvailableQuantity}
		}

		var ev eventRow
		err = tx.Table("events").
			Where("id = ?", tt.EventID).
			Take(&ev).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperrors.NotFoundError{Resource: "event", ID: tt.EventID.String()}
			}
			return &apperrors.TransientStoreError{Err: err}
		}
		if ev.HostID == uuid.Nil {
			return &apperrors.HostResolutionError{BookingID: booking.ID.String(), EventID: ev.ID.String()}
		}

		// Authoritative values win over whatever the client sent.
		booking.EventID = tt.EventID
		booking.VenueID = tt.VenueID
		booking.ShowID = tt.ShowID
		booking.TicketTypeName = tt.Name
		booking.PricePerTicket = tt.Price
		booking.TotalPrice = tt.Price * float64(booking.Quantity)
		booking.HostID = ev.HostID
		booking.EventName = ev.Title
		booking.EventDate = ev.StartDate
		booking.Status = StatusPending
		booking.AnalyticsCounted = false

		if err := tx.Create(booking).Error; err != nil {
			return &apperrors.TransientStoreError{Err: err}
		}

		res := tx.Table("ticket_types").
			Where("id = ? AND available_quantity >= ?", booking.TicketTypeID, booking.Quantity).
			Updates(map[string]interface{}{
				"available_quantity": gorm.Expr("available_quantity - ?", booking.Quantity),
				"sold_count":         gorm.Expr("sold_count + ?", booking.Quantity),
			})
		if res.Error != nil {
			return &apperrors.TransientStoreError{Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return &apperrors.InsufficientInventoryError{Available: tt.AvailableQuantity}
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "booking", ID: id.String()}
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var list []Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	var list []Booking
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListUncountedConfirmed(ctx context.Context, limit int) ([]Booking, error) {
	var list []Booking
	err := r.db.WithContext(ctx).
		Where("analytics_counted = ? AND UPPER(status) IN ?", false, ConfirmedEquivalentValues()).
		Order("updated_at ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, to Status) (Status, *Booking, error) {
	var before Status
	var booking Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperrors.NotFoundError{Resource: "booking", ID: id.String()}
			}
			return err
		}

		before = booking.Status
		if before == to {
			return nil
		}

		if err := tx.Model(&booking).Update("status", to).Error; err != nil {
			return err
		}
		booking.Status = to
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	return before, &booking, nil
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID) (Status, *Booking, error) {
	var before Status
	var booking Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperrors.NotFoundError{Resource: "booking", ID: id.String()}
			}
			return err
		}

		before = booking.Status
		if before == StatusCancelled {
			return nil
		}

		if err := tx.Model(&booking).Update("status", StatusCancelled).Error; err != nil {
			return err
		}

		if before.HoldsInventory() {
			res := tx.Table("ticket_types").
				Where("id = ?", booking.TicketTypeID).
				Updates(map[string]interface{}{
					"available_quantity": gorm.Expr("available_quantity + ?", booking.Quantity),
					"sold_count":         gorm.Expr("sold_count - ?", booking.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
		}

		booking.Status = StatusCancelled
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	return before, &booking, nil
}
