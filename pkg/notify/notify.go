// Package notify publishes configuration revision events to Kafka. Only
// the fact of a change travels on the wire, never the document itself.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/helixlang/helixconf/pkg/lg"
)

// Event describes one saved revision of a configuration document.
type Event struct {
	RevisionUID uuid.UUID `json:"revuid"`
	Source      string    `json:"source"`
	Keys        int       `json:"keys"`
	At          time.Time `json:"at"`
}

// NewEvent stamps a fresh revision event for a document with the given
// top-level key count.
func NewEvent(source string, keys int) Event {
	return Event{
		RevisionUID: uuid.New(),
		Source:      source,
		Keys:        keys,
		At:          time.Now().UTC(),
	}
}

type messageWriter interface {
	WriteMessages(context.Context, ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers []string
	Topic   string
}

type Publisher struct {
	writer messageWriter
	lg     lg.Logger
}

func NewPublisher(cfg Config, logger lg.Logger) *Publisher {
	if logger == nil {
		logger = lg.Default()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.LeastBytes{},
			Async:                  false,
			AllowAutoTopicCreation: true,
		},
		lg: logger,
	}
}

// Publish writes the event keyed by its revision UID.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("Publish: failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.RevisionUID.String()),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("Publish: failed to write message: %w", err)
	}

	p.lg.Info("published revision event",
		lg.String("revuid", ev.RevisionUID.String()),
		lg.String("source", ev.Source),
		lg.Int("keys", ev.Keys),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
