package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Event types published by the service.
const (
	UserRegistered      = "user.registered"
	UserVerified        = "user.verified"
	UserStatusChanged   = "user.status_changed"
	UserPasswordChanged = "user.password_changed"
	UserDeleted         = "user.deleted"
	CoursePublished     = "course.published"
	EnrollmentRequested = "enrollment.requested"
	EnrollmentDecided   = "enrollment.decided"
)

// Event is the envelope for all domain events.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Publisher publishes domain events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data map[string]interface{}) error
	Close() error
}

// KafkaPublisher publishes events to a Kafka topic via watermill.
type KafkaPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewKafkaPublisher connects to the given brokers and returns a publisher
// bound to topic.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaPublisher{
		publisher: publisher,
		topic:     topic,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, data map[string]interface{}) error {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "platform-service",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", eventType)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.publisher.Close()
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(ctx context.Context, eventType string, data map[string]interface{}) error {
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
