package reconciler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hostly/internal/bookings"

	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStatusChange() bookings.StatusChange {
	return bookings.StatusChange{
		BookingID:      uuid.New(),
		EventID:        uuid.New(),
		VenueID:        uuid.New(),
		ShowID:         uuid.New(),
		TicketTypeID:   uuid.New(),
		TicketTypeName: "VIP",
		Quantity:       1,
		PricePerTicket: 250,
		HostID:         uuid.New(),
		Before:         bookings.StatusPending,
		After:          bookings.StatusConfirmed,
		OccurredAt:     time.Now().UTC(),
	}
}

func TestPublishChangeSendsWirePayload(t *testing.T) {
	sc := sampleStatusChange()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var change Change
		if err := json.Unmarshal(val, &change); err != nil {
			return err
		}
		assert.Equal(t, sc.BookingID, change.BookingID)
		assert.Equal(t, sc.EventID, change.EventID)
		assert.Equal(t, "PENDING", change.Before)
		assert.Equal(t, "CONFIRMED", change.After)
		assert.Equal(t, 1, change.Quantity)
		assert.Equal(t, 250.0, change.PricePerTicket)
		return nil
	})

	publisher := newKafkaChangePublisherWithProducer(mockProducer, DefaultPublisherConfig())
	require.NoError(t, publisher.PublishChange(context.Background(), sc))
	require.NoError(t, mockProducer.Close())
}

func TestPublishChangeReturnsProducerError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(assert.AnError)

	publisher := newKafkaChangePublisherWithProducer(mockProducer, DefaultPublisherConfig())
	err := publisher.PublishChange(context.Background(), sampleStatusChange())
	require.Error(t, err)
	require.NoError(t, mockProducer.Close())
}

func TestChangePartitionKeyIsBookingID(t *testing.T) {
	sc := sampleStatusChange()
	change := changeFromStatusChange(sc)
	assert.Equal(t, sc.BookingID.String(), change.GetPartitionKey())
}

func TestChangeJSONRoundTrip(t *testing.T) {
	change := changeFromStatusChange(sampleStatusChange())

	data, err := change.ToJSON()
	require.NoError(t, err)

	decoded, err := changeFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, change, decoded)
}
