package analytics

import (
	"context"
	"testing"
	"time"

	"hostly/internal/events"
	"hostly/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsRepo struct {
	event         *EventAnalytics
	host          *HostAnalytics
	metadataCalls int
	appliedDeltas []Delta
	updateMetaErr error
	applyDeltaErr error
	getEventErr   error
}

func (f *fakeAnalyticsRepo) ApplyDelta(ctx context.Context, delta Delta) error {
	if f.applyDeltaErr != nil {
		return f.applyDeltaErr
	}
	f.appliedDeltas = append(f.appliedDeltas, delta)
	return nil
}

func (f *fakeAnalyticsRepo) GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*EventAnalytics, error) {
	if f.getEventErr != nil {
		return nil, f.getEventErr
	}
	return f.event, nil
}

func (f *fakeAnalyticsRepo) GetHostAnalytics(ctx context.Context, hostID uuid.UUID) (*HostAnalytics, error) {
	if f.host != nil {
		return f.host, nil
	}
	return &HostAnalytics{HostID: hostID}, nil
}

func (f *fakeAnalyticsRepo) UpdateEventMetadata(ctx context.Context, eventID uuid.UUID, name string, date time.Time, hostID uuid.UUID) error {
	if f.updateMetaErr != nil {
		return f.updateMetaErr
	}
	f.metadataCalls++
	return nil
}

type fakeEventSource struct {
	meta *events.EventMetadata
	err  error
}

func (f *fakeEventSource) GetEventMetadata(ctx context.Context, id uuid.UUID) (*events.EventMetadata, error) {
	return f.meta, f.err
}

func TestGetEventAnalyticsRepairsEmptyName(t *testing.T) {
	eventID := uuid.New()
	hostID := uuid.New()
	startDate := time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)

	repo := &fakeAnalyticsRepo{
		event: &EventAnalytics{
			EventID:          eventID,
			TotalTicketsSold: 42,
			TotalRevenue:     4200,
		},
	}
	source := &fakeEventSource{
		meta: &events.EventMetadata{Title: "Indie Rock Night", StartDate: startDate, HostID: hostID},
	}

	svc := NewService(repo, source)

	ea, err := svc.GetEventAnalytics(context.Background(), eventID)
	require.NoError(t, err)

	// The caller gets the repaired document in the same call.
	assert.Equal(t, "Indie Rock Night", ea.EventName)
	assert.Equal(t, startDate, ea.EventDate)
	assert.Equal(t, hostID, ea.HostID)
	assert.Equal(t, 42, ea.TotalTicketsSold)
	assert.Equal(t, 1, repo.metadataCalls)
}

func TestGetEventAnalyticsRepairsPlaceholderName(t *testing.T) {
	eventID := uuid.New()
	hostID := uuid.New()

	repo := &fakeAnalyticsRepo{
		event: &EventAnalytics{
			EventID:   eventID,
			HostID:    hostID,
			EventName: "Unnamed Event",
			EventDate: time.Now(),
		},
	}
	source := &fakeEventSource{
		meta: &events.EventMetadata{Title: "Summer Food Festival", StartDate: time.Now(), HostID: hostID},
	}

	svc := NewService(repo, source)

	ea, err := svc.GetEventAnalytics(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Food Festival", ea.EventName)
}

func TestGetEventAnalyticsSkipsRepairWhenHealthy(t *testing.T) {
	eventID := uuid.New()
	repo := &fakeAnalyticsRepo{
		event: &EventAnalytics{
			EventID:   eventID,
			HostID:    uuid.New(),
			EventName: "Go Meetup",
			EventDate: time.Now(),
		},
	}
	source := &fakeEventSource{err: assert.AnError}

	svc := NewService(repo, source)

	ea, err := svc.GetEventAnalytics(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, "Go Meetup", ea.EventName)
	assert.Equal(t, 0, repo.metadataCalls)
}

func TestGetEventAnalyticsRepairFailureStillReturnsData(t *testing.T) {
	eventID := uuid.New()
	repo := &fakeAnalyticsRepo{
		event: &EventAnalytics{EventID: eventID, TotalTicketsSold: 7},
	}
	source := &fakeEventSource{err: &apperrors.NotFoundError{Resource: "event", ID: eventID.String()}}

	svc := NewService(repo, source)

	ea, err := svc.GetEventAnalytics(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 7, ea.TotalTicketsSold)
	assert.Empty(t, ea.EventName)
}

func TestGetHostAnalyticsZeroForUnknownHost(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := NewService(repo, &fakeEventSource{})

	hostID := uuid.New()
	ha, err := svc.GetHostAnalytics(context.Background(), hostID)
	require.NoError(t, err)
	assert.Equal(t, hostID, ha.HostID)
	assert.Equal(t, 0, ha.TotalTicketsSold)
	assert.Equal(t, 0.0, ha.TotalRevenue)
}

func TestApplyDeltaForwardsToRepository(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := NewService(repo, &fakeEventSource{})

	delta := Delta{
		BookingID:      uuid.New(),
		EventID:        uuid.New(),
		HostID:         uuid.New(),
		TicketTypeName: "GA",
		Tickets:        2,
		Revenue:        200,
	}
	require.NoError(t, svc.ApplyDelta(context.Background(), delta))
	require.Len(t, repo.appliedDeltas, 1)
	assert.Equal(t, delta, repo.appliedDeltas[0])
}
