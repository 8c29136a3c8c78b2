package analytics

import (
	"context"

	"hostly/internal/events"
	"hostly/internal/shared/constants"
	"hostly/pkg/cache"
	"hostly/pkg/logger"
	"hostly/pkg/monitoring"

	"github.com/google/uuid"
)

// EventSource resolves authoritative event metadata for read-repair.
type EventSource interface {
	GetEventMetadata(ctx context.Context, id uuid.UUID) (*events.EventMetadata, error)
}

// Service interface defines the contract for analytics reads and the
// reconciliation write path.
type Service interface {
	// ApplyDelta forwards one booking's contribution to the aggregates
	// and drops the affected cache entries.
	ApplyDelta(ctx context.Context, delta Delta) error

	GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*EventAnalytics, error)
	GetHostAnalytics(ctx context.Context, hostID uuid.UUID) (*HostAnalytics, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	eventSource  EventSource
	cacheService cache.Service
	logger       *logger.Logger
}

// NewService creates a new analytics service instance
func NewService(repo Repository, eventSource EventSource) Service {
	return &service{
		repo:        repo,
		eventSource: eventSource,
		logger:      logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) ApplyDelta(ctx context.Context, delta Delta) error {
	if err := s.repo.ApplyDelta(ctx, delta); err != nil {
		return err
	}

	if s.cacheService != nil {
		_ = s.cacheService.Delete(ctx, constants.BuildAnalyticsEventKey(delta.EventID.String()))
		_ = s.cacheService.Delete(ctx, constants.BuildAnalyticsHostKey(delta.HostID.String()))
	}

	return nil
}

func (s *service) GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*EventAnalytics, error) {
	cacheKey := constants.BuildAnalyticsEventKey(eventID.String())

	if s.cacheService != nil {
		var cached EventAnalytics
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	ea, err := s.repo.GetEventAnalytics(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ea = s.repairMetadata(ctx, ea)

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, ea, constants.TTL_ANALYTICS_EVENT)
	}

	return ea, nil
}

func (s *service) GetHostAnalytics(ctx context.Context, hostID uuid.UUID) (*HostAnalytics, error) {
	cacheKey := constants.BuildAnalyticsHostKey(hostID.String())

	if s.cacheService != nil {
		var cached HostAnalytics
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	ha, err := s.repo.GetHostAnalytics(ctx, hostID)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, ha, constants.TTL_ANALYTICS_HOST)
	}

	return ha, nil
}

// placeholder names some legacy writers stamped when the real title was
// unavailable at write time
func isPlaceholderName(name string) bool {
	switch name {
	case "", "Unnamed Event", "Untitled Event":
		return true
	}
	return false
}

func (ea *EventAnalytics) needsRepair() bool {
	return isPlaceholderName(ea.EventName) || ea.EventDate.IsZero() || ea.HostID == uuid.Nil
}

// repairMetadata backfills stale denormalized fields from the
// authoritative event record during the read itself. A failed repair is
// logged and the stale document returned; the caller still gets data.
func (s *service) repairMetadata(ctx context.Context, ea *EventAnalytics) *EventAnalytics {
	if s.eventSource == nil || !ea.needsRepair() {
		return ea
	}

	meta, err := s.eventSource.GetEventMetadata(ctx, ea.EventID)
	if err != nil {
		monitoring.TrackReadRepair("failed")
		s.logger.ErrorWithContext(ctx, "analytics metadata repair failed", err, map[string]interface{}{
			"event_id": ea.EventID.String(),
		})
		return ea
	}

	if err := s.repo.UpdateEventMetadata(ctx, ea.EventID, meta.Title, meta.StartDate, meta.HostID); err != nil {
		monitoring.TrackReadRepair("failed")
		s.logger.ErrorWithContext(ctx, "analytics metadata repair failed", err, map[string]interface{}{
			"event_id": ea.EventID.String(),
		})
		return ea
	}

	if isPlaceholderName(ea.EventName) && meta.Title != "" {
		ea.EventName = meta.Title
	}
	if ea.EventDate.IsZero() {
		ea.EventDate = meta.StartDate
	}
	if ea.HostID == uuid.Nil {
		ea.HostID = meta.HostID
	}

	monitoring.TrackReadRepair("repaired")
	s.logger.LogReadRepair(ctx, ea.EventID.String(), ea.EventName)

	return ea
}
