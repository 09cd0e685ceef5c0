// Package events publishes alert lifecycle events for downstream consumers
// such as SMS gateways.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// TypeAlertCreated is the event type emitted when an alert is generated.
const TypeAlertCreated = "alert.created"

// AlertEvent is the JSON payload written for every new alert.
type AlertEvent struct {
	Type           string     `json:"type"`
	AlertID        uuid.UUID  `json:"alert_id"`
	Severity       string     `json:"severity"`
	Title          string     `json:"title"`
	AffectedCities []string   `json:"affected_cities"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	Notified       int        `json:"notified"`
}

// Publisher emits alert events.
type Publisher interface {
	PublishAlert(ctx context.Context, event AlertEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes alert events to a Kafka topic keyed by city.
type KafkaPublisher struct {
	writer messageWriter
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a synchronous producer for topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// PublishAlert sends the event. Events for the same city land on the same partition.
func (p *KafkaPublisher) PublishAlert(ctx context.Context, event AlertEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode alert event: %w", err)
	}

	key := event.AlertID.String()
	if len(event.AffectedCities) > 0 {
		key = event.AffectedCities[0]
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// Close closes the producer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishAlert(context.Context, AlertEvent) error { return nil }
func (NopPublisher) Close() error                                   { return nil }
