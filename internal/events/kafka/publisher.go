package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/simple_bank_app/internal/core/ports/events"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes domain events to a Kafka topic as JSON, keyed by transfer id.
type Publisher struct {
	writer  messageWriter
	timeout time.Duration
}

var _ events.Publisher = (*Publisher)(nil)

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		timeout: 5 * time.Second,
	}
}

// PublishTransferCompleted blocks until the broker acknowledged the event or the timeout
// passed. The request context only bounds the wait; a cancelled request still publishes.
func (p *Publisher) PublishTransferCompleted(ctx context.Context, event events.TransferCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode transfer event: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.TransferID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("transfer_completed")},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish transfer event %s: %w", event.TransferID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
