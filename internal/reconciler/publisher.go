package reconciler

import (
	"context"
	"fmt"
	"time"

	"hostly/internal/bookings"
	"hostly/pkg/logger"

	"github.com/IBM/sarama"
)

// PublisherConfig contains configuration for the Kafka change publisher
type PublisherConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultPublisherConfig returns a default publisher configuration
func DefaultPublisherConfig() *PublisherConfig {
	return &PublisherConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "booking-changes",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaChangePublisher publishes booking status changes to Kafka. It
// implements bookings.ChangePublisher.
type KafkaChangePublisher struct {
	producer sarama.SyncProducer
	config   *PublisherConfig
	logger   *logger.Logger
}

// NewKafkaChangePublisher creates a new Kafka change publisher
func NewKafkaChangePublisher(config *PublisherConfig) (*KafkaChangePublisher, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keyed by booking ID keeps per-booking ordering.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaChangePublisher{
		producer: producer,
		config:   config,
		logger:   logger.GetDefault(),
	}, nil
}

// newKafkaChangePublisherWithProducer is used by tests to inject a mock producer
func newKafkaChangePublisherWithProducer(producer sarama.SyncProducer, config *PublisherConfig) *KafkaChangePublisher {
	return &KafkaChangePublisher{
		producer: producer,
		config:   config,
		logger:   logger.GetDefault(),
	}
}

func (p *KafkaChangePublisher) PublishChange(ctx context.Context, sc bookings.StatusChange) error {
	change := changeFromStatusChange(sc)

	messageBytes, err := change.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking change: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(change.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: change.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("booking_id"), Value: []byte(change.BookingID.String())},
			{Key: []byte("event_id"), Value: []byte(change.EventID.String())},
			{Key: []byte("before"), Value: []byte(change.Before)},
			{Key: []byte("after"), Value: []byte(change.After)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send booking change to Kafka: %w", err)
	}

	p.logger.Debug("booking change published",
		"topic", p.config.Topic,
		"partition", partition,
		"offset", offset,
		"booking_id", change.BookingID.String(),
		"before", change.Before,
		"after", change.After,
	)

	return nil
}

// Close closes the underlying Kafka producer
func (p *KafkaChangePublisher) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// DirectPublisher runs the reconciliation handler in-process instead of
// going through Kafka. Used when the broker is disabled, typically in
// local development.
type DirectPublisher struct {
	applier *Applier
}

func NewDirectPublisher(applier *Applier) *DirectPublisher {
	return &DirectPublisher{applier: applier}
}

func (p *DirectPublisher) PublishChange(ctx context.Context, sc bookings.StatusChange) error {
	return p.applier.Apply(ctx, changeFromStatusChange(sc))
}
