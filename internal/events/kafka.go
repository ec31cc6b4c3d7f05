package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes order events to a Kafka topic keyed by gateway order id.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	})
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishStatusChanged fills the event id, type and timestamp when missing and
// writes the event.
func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Type == "" {
		event.Type = EventTypeStatusChanged
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode status event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.GatewayOrderID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NopPublisher{}
)
