package events

import (
	"context"
	"testing"
	"time"

	"hostly/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *Event) error {
	event.ID = uuid.New()
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "event", ID: id.String()}
	}
	return e, nil
}

func (f *fakeEventRepo) ListByHost(ctx context.Context, hostID uuid.UUID) ([]Event, error) {
	var out []Event
	for _, e := range f.events {
		if e.HostID == hostID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	e, ok := f.events[id]
	if !ok {
		return &apperrors.NotFoundError{Resource: "event", ID: id.String()}
	}
	e.Status = status
	return nil
}

func TestCreateEventStartsAsDraft(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewService(repo)
	hostID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), hostID, CreateEventRequest{
		Title:     "Indie Rock Night",
		VenueID:   uuid.New().String(),
		StartDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, event.Status)
	assert.Equal(t, hostID, event.HostID)
}

func TestPublishEventChecksOwnership(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewService(repo)
	hostID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), hostID, CreateEventRequest{
		Title:     "Go Meetup",
		VenueID:   uuid.New().String(),
		StartDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	err = svc.PublishEvent(context.Background(), event.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, StatusDraft, repo.events[event.ID].Status)

	require.NoError(t, svc.PublishEvent(context.Background(), event.ID, hostID))
	assert.Equal(t, StatusPublished, repo.events[event.ID].Status)
}

func TestGetEventMetadata(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewService(repo)
	hostID := uuid.New()
	start := time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC)

	event, err := svc.CreateEvent(context.Background(), hostID, CreateEventRequest{
		Title:     "Summer Food Festival",
		VenueID:   uuid.New().String(),
		StartDate: start,
	})
	require.NoError(t, err)

	meta, err := svc.GetEventMetadata(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Food Festival", meta.Title)
	assert.Equal(t, start, meta.StartDate)
	assert.Equal(t, hostID, meta.HostID)
}
