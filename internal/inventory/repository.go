package inventory

import (
	"context"
	"errors"

	"hostly/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, ticketType *TicketType) error
	GetByID(ctx context.Context, id uuid.UUID) (*TicketType, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketType, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ticketType *TicketType) error {
	return r.db.WithContext(ctx).Create(ticketType).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*TicketType, error) {
	var tt TicketType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "ticket type", ID: id.String()}
		}
		return nil, err
	}
	return &tt, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	var list []TicketType
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("price ASC").
		Find(&list).Error
	return list, err
}
