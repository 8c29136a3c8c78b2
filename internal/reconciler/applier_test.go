package reconciler

import (
	"context"
	"testing"
	"time"

	"hostly/internal/analytics"
	"hostly/internal/events"
	"hostly/pkg/apperrors"
	"hostly/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnalytics mirrors the durable counted-marker contract of the real
// repository: a booking's delta is accepted at most once per direction.
type fakeAnalytics struct {
	counted     map[uuid.UUID]bool
	eventTotals map[uuid.UUID]*analytics.EventAnalytics
	hostTotals  map[uuid.UUID]*analytics.HostAnalytics
	applyCalls  int
}

func newFakeAnalytics() *fakeAnalytics {
	return &fakeAnalytics{
		counted:     make(map[uuid.UUID]bool),
		eventTotals: make(map[uuid.UUID]*analytics.EventAnalytics),
		hostTotals:  make(map[uuid.UUID]*analytics.HostAnalytics),
	}
}

func (f *fakeAnalytics) ApplyDelta(ctx context.Context, delta analytics.Delta) error {
	f.applyCalls++

	wasCounted := delta.Tickets < 0
	if f.counted[delta.BookingID] != wasCounted {
		return analytics.ErrAlreadyCounted
	}
	f.counted[delta.BookingID] = !wasCounted

	ea, ok := f.eventTotals[delta.EventID]
	if !ok {
		ea = &analytics.EventAnalytics{
			EventID:         delta.EventID,
			TicketBreakdown: analytics.TicketBreakdown{},
		}
		f.eventTotals[delta.EventID] = ea
	}
	ea.HostID = delta.HostID
	if delta.EventName != "" {
		ea.EventName = delta.EventName
	}
	if !delta.EventDate.IsZero() {
		ea.EventDate = delta.EventDate
	}
	ea.TotalTicketsSold += delta.Tickets
	ea.TotalRevenue += delta.Revenue
	entry := ea.TicketBreakdown[delta.TicketTypeName]
	entry.SoldCount += delta.Tickets
	entry.Revenue += delta.Revenue
	ea.TicketBreakdown[delta.TicketTypeName] = entry

	ha, ok := f.hostTotals[delta.HostID]
	if !ok {
		ha = &analytics.HostAnalytics{HostID: delta.HostID}
		f.hostTotals[delta.HostID] = ha
	}
	ha.TotalTicketsSold += delta.Tickets
	ha.TotalRevenue += delta.Revenue

	return nil
}

func (f *fakeAnalytics) GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*analytics.EventAnalytics, error) {
	return f.eventTotals[eventID], nil
}

func (f *fakeAnalytics) GetHostAnalytics(ctx context.Context, hostID uuid.UUID) (*analytics.HostAnalytics, error) {
	return f.hostTotals[hostID], nil
}

func (f *fakeAnalytics) SetCacheService(cacheService cache.Service) {}

type fakeSource struct {
	meta *events.EventMetadata
	err  error
}

func (f *fakeSource) GetEventMetadata(ctx context.Context, id uuid.UUID) (*events.EventMetadata, error) {
	return f.meta, f.err
}

func confirmChange(hostID uuid.UUID) Change {
	return Change{
		BookingID:      uuid.New(),
		EventID:        uuid.New(),
		VenueID:        uuid.New(),
		ShowID:         uuid.New(),
		TicketTypeID:   uuid.New(),
		TicketTypeName: "GA",
		Quantity:       2,
		PricePerTicket: 100,
		HostID:         hostID,
		Before:         "PENDING",
		After:          "CONFIRMED",
		OccurredAt:     time.Now().UTC(),
	}
}

func TestApplyCountsExactlyOnceUnderDuplicateDelivery(t *testing.T) {
	store := newFakeAnalytics()
	applier := NewApplier(store, &fakeSource{meta: &events.EventMetadata{Title: "Indie Rock Night", HostID: uuid.New()}})

	change := confirmChange(uuid.New())

	// Simulate redelivery: the same transition arrives five times.
	for i := 0; i < 5; i++ {
		require.NoError(t, applier.Apply(context.Background(), change))
	}

	ea := store.eventTotals[change.EventID]
	require.NotNil(t, ea)
	assert.Equal(t, 2, ea.TotalTicketsSold)
	assert.Equal(t, 200.0, ea.TotalRevenue)
	assert.Equal(t, 2, ea.TicketBreakdown["GA"].SoldCount)
	assert.Equal(t, 200.0, ea.TicketBreakdown["GA"].Revenue)
}

func TestApplySkipsResaveOfConfirmedBooking(t *testing.T) {
	store := newFakeAnalytics()
	applier := NewApplier(store, &fakeSource{})

	change := confirmChange(uuid.New())
	change.Before = "CONFIRMED"
	change.After = "CONFIRMED"

	require.NoError(t, applier.Apply(context.Background(), change))
	assert.Equal(t, 0, store.applyCalls)
	assert.Empty(t, store.eventTotals)
}

func TestApplySkipsNonCountingTransitions(t *testing.T) {
	store := newFakeAnalytics()
	applier := NewApplier(store, &fakeSource{})

	cases := []struct{ before, after string }{
		{"", "PENDING"},
		{"PENDING", "FAILED"},
		{"PENDING", "CANCELLED"},
		{"SUCCESS", "PAID"},
	}
	for _, tc := range cases {
		change := confirmChange(uuid.New())
		change.Before = tc.before
		change.After = tc.after
		require.NoError(t, applier.Apply(context.Background(), change))
	}

	assert.Equal(t, 0, store.applyCalls)
	assert.Empty(t, store.eventTotals)
}

func TestApplyTreatsUpstreamSpellingsAsConfirmed(t *testing.T) {
	store := newFakeAnalytics()
	applier := NewApplier(store, &fakeSource{})

	change := confirmChange(uuid.New())
	change.Before = "PENDING"
	change.After = "paid"

	require.NoError(t, applier.Apply(context.Background(), change))

	ea := store.eventTotals[change.EventID]
	require.NotNil(t, ea)
	assert.Equal(t, 2, ea.TotalTicketsSold)
}

func TestApplyDecrementsOnCancellationOfConfirmedBooking(t *testing.T) {
	store := newFakeAnalytics()
	hostID := uuid.New()
	applier := NewApplier(store, &fakeSource{})

	change := confirmChange(hostID)
	require.NoError(t, applier.Apply(context.Background(), change))

	cancel := change
	cancel.Before = "CONFIRMED"
	cancel.After = "CANCELLED"
	require.NoError(t, applier.Apply(context.Background(), cancel))

	ea := store.eventTotals[change.EventID]
	assert.Equal(t, 0, ea.TotalTicketsSold)
	assert.Equal(t, 0.0, ea.TotalRevenue)

	ha := store.hostTotals[hostID]
	assert.Equal(t, 0, ha.TotalTicketsSold)

	// A duplicated cancellation is absorbed by the marker.
	require.NoError(t, applier.Apply(context.Background(), cancel))
	assert.Equal(t, 0, store.eventTotals[change.EventID].TotalTicketsSold)
}

func TestApplyResolvesHostFromEventRecord(t *testing.T) {
	store := newFakeAnalytics()
	hostID := uuid.New()
	startDate := time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC)
	applier := NewApplier(store, &fakeSource{
		meta: &events.EventMetadata{Title: "Go Meetup", StartDate: startDate, HostID: hostID},
	})

	change := confirmChange(uuid.Nil)
	require.NoError(t, applier.Apply(context.Background(), change))

	ea := store.eventTotals[change.EventID]
	require.NotNil(t, ea)
	assert.Equal(t, hostID, ea.HostID)
	assert.Equal(t, "Go Meetup", ea.EventName)
	assert.Equal(t, startDate, ea.EventDate)

	ha := store.hostTotals[hostID]
	require.NotNil(t, ha)
	assert.Equal(t, 2, ha.TotalTicketsSold)
}

func TestApplyFailsWhenHostCannotBeResolved(t *testing.T) {
	store := newFakeAnalytics()
	applier := NewApplier(store, &fakeSource{err: assert.AnError})

	change := confirmChange(uuid.Nil)
	err := applier.Apply(context.Background(), change)
	require.Error(t, err)
	assert.True(t, apperrors.IsHostResolution(err))
	assert.Empty(t, store.eventTotals)
}

func TestApplyHostRollupAcrossEvents(t *testing.T) {
	store := newFakeAnalytics()
	hostID := uuid.New()
	applier := NewApplier(store, &fakeSource{})

	var eventIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		change := confirmChange(hostID)
		eventIDs = append(eventIDs, change.EventID)
		require.NoError(t, applier.Apply(context.Background(), change))
	}

	sumTickets, sumRevenue := 0, 0.0
	for _, id := range eventIDs {
		sumTickets += store.eventTotals[id].TotalTicketsSold
		sumRevenue += store.eventTotals[id].TotalRevenue
	}

	ha := store.hostTotals[hostID]
	assert.Equal(t, sumTickets, ha.TotalTicketsSold)
	assert.Equal(t, sumRevenue, ha.TotalRevenue)
	assert.Equal(t, 6, ha.TotalTicketsSold)
	assert.Equal(t, 600.0, ha.TotalRevenue)
}

func TestApplyRevenueIsPriceTimesQuantity(t *testing.T) {
	store := newFakeAnalytics()
	applier := NewApplier(store, &fakeSource{})

	change := confirmChange(uuid.New())
	change.Quantity = 3
	change.PricePerTicket = 49.50

	require.NoError(t, applier.Apply(context.Background(), change))

	ea := store.eventTotals[change.EventID]
	assert.Equal(t, 3, ea.TotalTicketsSold)
	assert.InDelta(t, 148.50, ea.TotalRevenue, 0.001)
}
