package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hostly/pkg/apperrors"
	"hostly/pkg/logger"

	"github.com/IBM/sarama"
)

// ConsumerConfig contains configuration for the change consumer group
type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "hostly-reconciler",
		Topics:               []string{"booking-changes"},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		MaxProcessingTime:    5 * time.Minute,
		OffsetOldest:         true,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// Consumer drives the reconciliation applier from the booking-changes
// topic with a pool of consumer group workers.
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	applier       *Applier
	logger        *logger.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// NewConsumer creates a new reconciliation consumer
func NewConsumer(config *ConsumerConfig, applier *Applier) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		consumerGroup: consumerGroup,
		config:        config,
		applier:       applier,
		logger:        logger.GetDefault(),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Start launches numWorkers consumer group workers
func (c *Consumer) Start(ctx context.Context, numWorkers int) error {
	c.logger.Info("starting reconciler workers", "workers", numWorkers, "topics", c.config.Topics)

	go c.handleErrors()

	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}

	return nil
}

func (c *Consumer) runWorker(ctx context.Context, workerID int) {
	handler := &changeHandler{
		workerID: workerID,
		applier:  c.applier,
		config:   c.config,
		logger:   c.logger,
	}

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("reconciler worker shutting down", "worker", workerID)
			return
		case <-c.ctx.Done():
			return
		default:
			if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
				c.logger.Error("reconciler worker consume error", "worker", workerID, "error", err.Error())
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *Consumer) handleErrors() {
	for err := range c.consumerGroup.Errors() {
		c.logger.Error("reconciler consumer group error", "error", err.Error())
	}
}

// Stop shuts down the consumer group and waits for workers to exit
func (c *Consumer) Stop() error {
	c.cancel()

	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}

	c.wg.Wait()
	return nil
}

type changeHandler struct {
	workerID int
	applier  *Applier
	config   *ConsumerConfig
	logger   *logger.Logger
}

func (h *changeHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *changeHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *changeHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				// Leaving the message unmarked makes the group redeliver
				// it. The counted marker keeps the retry harmless.
				h.logger.Error("failed to process booking change",
					"worker", h.workerID,
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err.Error(),
				)
			} else {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *changeHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	change, err := changeFromJSON(message.Value)
	if err != nil {
		// A malformed payload will never parse on redelivery either.
		// Log it and mark it consumed.
		h.logger.Error("dropping malformed booking change",
			"worker", h.workerID,
			"offset", message.Offset,
			"error", err.Error(),
		)
		return nil
	}

	return h.applyWithRetry(ctx, change)
}

func (h *changeHandler) applyWithRetry(ctx context.Context, change Change) error {
	backoff := h.config.RetryBackoffDuration

	var lastErr error
	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		lastErr = h.applier.Apply(ctx, change)
		if lastErr == nil {
			return nil
		}

		// Data-integrity failures will not heal with a retry loop.
		if apperrors.IsHostResolution(lastErr) {
			return lastErr
		}

		if attempt == h.config.MaxRetries {
			break
		}

		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
