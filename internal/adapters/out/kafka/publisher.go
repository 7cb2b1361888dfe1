// Package kafka publishes integration events to a Kafka broker.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"optiroute/internal/core/ports"
)

// DefaultTopic is the topic for optimization completion events.
// Format: {domain}.{event}.v1
const DefaultTopic = "optimization.completed.v1"

// Publisher implements ports.EventPublisher on top of a kafka.Writer.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher connected to the given broker address.
// An empty topic falls back to DefaultTopic.
func NewPublisher(address, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(address),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishOptimizationCompleted emits one event keyed by run ID, so replays
// of the same run land on the same partition.
func (p *Publisher) PublishOptimizationCompleted(ctx context.Context, event ports.OptimizationCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RunID),
		Value: payload,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
