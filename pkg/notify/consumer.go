package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads revision events for services that reload configuration
// on change. T is usually Event but stays generic for forward-compatible
// payloads.
type Consumer[T any] struct {
	reader messageReader
}

type ConsumerConfig struct {
	Brokers []string
	GroupID string
	Topic   string
}

func NewConsumer[T any](cfg ConsumerConfig) *Consumer[T] {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
	})
	return &Consumer[T]{reader: r}
}

// Read fetches the next event, decodes it, and commits the offset. A
// payload that does not decode is not committed, so it is redelivered
// rather than silently lost.
func (c *Consumer[T]) Read(ctx context.Context) (T, error) {
	var zero T

	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return zero, fmt.Errorf("Read: failed to fetch message: %w", err)
	}

	var payload T
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return zero, fmt.Errorf("Read: failed to decode message: %w", err)
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		return zero, fmt.Errorf("Read: failed to commit message: %w", err)
	}

	return payload, nil
}

func (c *Consumer[T]) Close() error {
	return c.reader.Close()
}
