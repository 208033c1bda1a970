package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaReader is the part of kafka.Reader used by Consumer.
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader  KafkaReader
	logger  *zap.Logger
	handler func(context.Context, Event) error
	// fetchBackOff paces retries after failed fetches.
	fetchBackOff backoff.BackOff
}

// NewConsumer reads employee events from topic as part of groupID.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger, handler func(context.Context, Event) error) *Consumer {
	return newConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
		Dialer:  kafka.DefaultDialer,
	}), logger, handler)
}

func newConsumer(reader KafkaReader, logger *zap.Logger, handler func(context.Context, Event) error) *Consumer {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0

	return &Consumer{
		reader:       reader,
		logger:       logger.Named("kafka_consumer"),
		handler:      handler,
		fetchBackOff: b,
	}
}

// Run consumes until ctx is cancelled or the reader is closed. Messages that
// cannot be decoded or handled are logged and skipped. They are never
// committed themselves, but committing a later message moves the group
// offset past them.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			// The reader has been closed.
			if errors.Is(err, io.EOF) {
				return nil
			}
			wait := c.fetchBackOff.NextBackOff()
			c.logger.Error("Failed to fetch message",
				zap.Error(err),
				zap.Duration("retry_in", wait),
			)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		c.fetchBackOff.Reset()

		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error("Failed to parse event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := c.handler(ctx, event); err != nil {
			c.logger.Error("Failed to handle event",
				zap.Error(err),
				zap.String("event_type", string(event.Type)),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message", zap.Error(err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
