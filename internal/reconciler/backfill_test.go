package reconciler

import (
	"context"
	"sync"
	"testing"
	"time"

	"hostly/internal/bookings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUncountedStore hands out the bookings whose change message never
// reached the reconciler. Flipping counted removes a booking from the
// next sweep, mirroring the durable marker.
type fakeUncountedStore struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*bookings.Booking
	listErr error
}

func newFakeUncountedStore() *fakeUncountedStore {
	return &fakeUncountedStore{rows: make(map[uuid.UUID]*bookings.Booking)}
}

func (f *fakeUncountedStore) add(b *bookings.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[b.ID] = b
}

func (f *fakeUncountedStore) markCounted(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.rows[id]; ok {
		b.AnalyticsCounted = true
	}
}

func (f *fakeUncountedStore) ListUncountedConfirmed(ctx context.Context, limit int) ([]bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []bookings.Booking
	for _, b := range f.rows {
		if len(out) == limit {
			break
		}
		if !b.AnalyticsCounted && b.Status.IsConfirmedEquivalent() {
			out = append(out, *b)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []bookings.StatusChange
	err     error
}

func (p *recordingPublisher) PublishChange(ctx context.Context, change bookings.StatusChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.changes = append(p.changes, change)
	return nil
}

func (p *recordingPublisher) published() []bookings.StatusChange {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]bookings.StatusChange, len(p.changes))
	copy(out, p.changes)
	return out
}

func confirmedBooking() *bookings.Booking {
	return &bookings.Booking{
		ID:             uuid.New(),
		EventID:        uuid.New(),
		VenueID:        uuid.New(),
		ShowID:         uuid.New(),
		TicketTypeID:   uuid.New(),
		TicketTypeName: "GA",
		Quantity:       2,
		PricePerTicket: 100,
		HostID:         uuid.New(),
		Status:         bookings.StatusConfirmed,
	}
}

func TestBackfillRepublishesCountingTransition(t *testing.T) {
	store := newFakeUncountedStore()
	booking := confirmedBooking()
	store.add(booking)

	pub := &recordingPublisher{}
	backfill := NewBackfill(store, pub, time.Minute)

	n, err := backfill.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	changes := pub.published()
	require.Len(t, changes, 1)
	assert.Equal(t, booking.ID, changes[0].BookingID)
	assert.Equal(t, booking.EventID, changes[0].EventID)
	assert.Equal(t, booking.HostID, changes[0].HostID)
	assert.Equal(t, bookings.StatusPending, changes[0].Before)
	assert.Equal(t, bookings.StatusConfirmed, changes[0].After)
	assert.Equal(t, 2, changes[0].Quantity)
	assert.Equal(t, 100.0, changes[0].PricePerTicket)
}

func TestBackfillRecoversConfirmationLostDuringPublishOutage(t *testing.T) {
	// Confirm a booking while the publisher is down, then bring the
	// publisher back and sweep: the aggregates end up counting the
	// booking even though the original change message was lost.
	repo := newFakeUncountedStore()
	store := newFakeAnalytics()
	applier := NewApplier(store, &fakeSource{})
	direct := NewDirectPublisher(applier)

	booking := confirmedBooking()

	// The original publish fails and nothing retries it inline.
	down := &recordingPublisher{err: context.DeadlineExceeded}
	require.Error(t, down.PublishChange(context.Background(), bookings.StatusChange{
		BookingID: booking.ID,
		Before:    bookings.StatusPending,
		After:     bookings.StatusConfirmed,
	}))
	repo.add(booking)
	require.Empty(t, store.eventTotals)

	backfill := NewBackfill(repo, direct, time.Minute)

	n, err := backfill.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ea := store.eventTotals[booking.EventID]
	require.NotNil(t, ea)
	assert.Equal(t, 2, ea.TotalTicketsSold)
	assert.Equal(t, 200.0, ea.TotalRevenue)

	// The marker flips once the delta lands, so the next sweep finds
	// nothing and the count stays exactly once.
	repo.markCounted(booking.ID)

	n, err = backfill.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, store.eventTotals[booking.EventID].TotalTicketsSold)
}

func TestBackfillDuplicateRepublishAbsorbedByMarker(t *testing.T) {
	// If the original message was merely delayed rather than lost, the
	// reconciler sees the transition twice. The counted marker rejects
	// the second application.
	repo := newFakeUncountedStore()
	store := newFakeAnalytics()
	applier := NewApplier(store, &fakeSource{})
	direct := NewDirectPublisher(applier)

	booking := confirmedBooking()
	repo.add(booking)

	backfill := NewBackfill(repo, direct, time.Minute)
	n, err := backfill.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Delayed original delivery arrives after the sweep already
	// republished it.
	n, err = backfill.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, 2, store.eventTotals[booking.EventID].TotalTicketsSold)
	assert.Equal(t, 200.0, store.eventTotals[booking.EventID].TotalRevenue)
}

func TestBackfillPublishFailureLeavesBookingForNextSweep(t *testing.T) {
	repo := newFakeUncountedStore()
	booking := confirmedBooking()
	repo.add(booking)

	pub := &recordingPublisher{err: context.DeadlineExceeded}
	backfill := NewBackfill(repo, pub, time.Minute)

	n, err := backfill.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Publisher recovers; the booking is still pending a republish.
	pub.err = nil
	n, err = backfill.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, pub.published(), 1)
	assert.Equal(t, booking.ID, pub.published()[0].BookingID)
}

func TestBackfillIgnoresPendingAndCancelledBookings(t *testing.T) {
	repo := newFakeUncountedStore()

	pending := confirmedBooking()
	pending.Status = bookings.StatusPending
	repo.add(pending)

	cancelled := confirmedBooking()
	cancelled.Status = bookings.StatusCancelled
	repo.add(cancelled)

	pub := &recordingPublisher{}
	backfill := NewBackfill(repo, pub, time.Minute)

	n, err := backfill.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, pub.published())
}
