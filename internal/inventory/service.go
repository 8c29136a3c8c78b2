package inventory

import (
	"context"
	"fmt"

	"hostly/internal/events"
	"hostly/internal/shared/constants"
	"hostly/pkg/cache"

	"github.com/google/uuid"
)

// Service interface defines the contract for ticket inventory operations
type Service interface {
	CreateTicketType(ctx context.Context, eventID uuid.UUID, hostID uuid.UUID, req CreateTicketTypeRequest) (*TicketType, error)
	GetTicketType(ctx context.Context, id uuid.UUID) (*TicketType, error)
	ListEventTicketTypes(ctx context.Context, eventID uuid.UUID) ([]TicketType, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	eventService events.Service
	cacheService cache.Service
}

// NewService creates a new inventory service instance
func NewService(repo Repository, eventService events.Service) Service {
	return &service{repo: repo, eventService: eventService}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateTicketType(ctx context.Context, eventID uuid.UUID, hostID uuid.UUID, req CreateTicketTypeRequest) (*TicketType, error) {
	meta, err := s.eventService.GetEventMetadata(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if meta.HostID != hostID {
		return nil, fmt.Errorf("event does not belong to host")
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID: %w", err)
	}
	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID: %w", err)
	}

	tt := &TicketType{
		EventID:           eventID,
		VenueID:           venueID,
		ShowID:            showID,
		Name:              req.Name,
		Price:             req.Price,
		AvailableQuantity: req.Quantity,
		SoldCount:         0,
	}

	if err := s.repo.Create(ctx, tt); err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}

	if s.cacheService != nil {
		_ = s.cacheService.Delete(ctx, constants.BuildTicketTypesKey(eventID.String()))
	}

	return tt, nil
}

func (s *service) GetTicketType(ctx context.Context, id uuid.UUID) (*TicketType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListEventTicketTypes(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	cacheKey := constants.BuildTicketTypesKey(eventID.String())

	if s.cacheService != nil {
		var cached []TicketType
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	list, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, list, constants.TTL_TICKET_TYPES)
	}

	return list, nil
}
