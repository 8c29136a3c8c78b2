package events

import (
	"context"
	"fmt"

	"hostly/internal/shared/constants"
	"hostly/pkg/cache"

	"github.com/google/uuid"
)

// Service interface defines the contract for event metadata operations
type Service interface {
	CreateEvent(ctx context.Context, hostID uuid.UUID, req CreateEventRequest) (*Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	ListHostEvents(ctx context.Context, hostID uuid.UUID) ([]Event, error)
	PublishEvent(ctx context.Context, id uuid.UUID, hostID uuid.UUID) error

	// GetEventMetadata exposes the authoritative fields the booking pipeline
	// needs: host attribution plus the display metadata used for analytics
	// stamping and read-repair.
	GetEventMetadata(ctx context.Context, id uuid.UUID) (*EventMetadata, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

// NewService creates a new event service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateEvent(ctx context.Context, hostID uuid.UUID, req CreateEventRequest) (*Event, error) {
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID: %w", err)
	}

	event := &Event{
		Title:       req.Title,
		Description: req.Description,
		VenueID:     venueID,
		StartDate:   req.StartDate,
		HostID:      hostID,
		Status:      StatusDraft,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	cacheKey := constants.BuildEventDetailKey(id.String())

	if s.cacheService != nil {
		var cached Event
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		// Failing to cache is not a request failure
		_ = s.cacheService.Set(ctx, cacheKey, event, constants.TTL_EVENT_DETAIL)
	}

	return event, nil
}

func (s *service) ListHostEvents(ctx context.Context, hostID uuid.UUID) ([]Event, error) {
	return s.repo.ListByHost(ctx, hostID)
}

func (s *service) PublishEvent(ctx context.Context, id uuid.UUID, hostID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if event.HostID != hostID {
		return fmt.Errorf("event does not belong to host")
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusPublished); err != nil {
		return err
	}

	if s.cacheService != nil {
		_ = s.cacheService.Delete(ctx, constants.BuildEventDetailKey(id.String()))
	}

	return nil
}

func (s *service) GetEventMetadata(ctx context.Context, id uuid.UUID) (*EventMetadata, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	return &EventMetadata{
		Title:     event.Title,
		StartDate: event.StartDate,
		HostID:    event.HostID,
	}, nil
}
