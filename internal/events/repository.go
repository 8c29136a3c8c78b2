package events

import (
	"context"
	"errors"

	"hostly/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "event", ID: id.String()}
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]Event, error) {
	var list []Event
	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("start_date DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	res := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &apperrors.NotFoundError{Resource: "event", ID: id.String()}
	}
	return nil
}
