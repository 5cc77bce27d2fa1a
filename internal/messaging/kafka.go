package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Topics struct {
	OrderPlaced    string
	OrderCompleted string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

var _ domain.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher writes order events keyed by order id, so all events of
// one order land on the same partition.
type KafkaPublisher struct {
	writer messageWriter
	topics Topics
	log    *logrus.Logger
}

func NewKafkaPublisher(brokers []string, topics Topics, logger *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafkaGo.Writer{
			Addr:         kafkaGo.TCP(brokers...),
			Balancer:     &kafkaGo.Hash{},
			RequiredAcks: kafkaGo.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		topics: topics,
		log:    logger,
	}
}

func (p *KafkaPublisher) topicFor(t domain.OrderEventType) (string, error) {
	switch t {
	case domain.EventOrderPlaced:
		return p.topics.OrderPlaced, nil
	case domain.EventOrderCompleted:
		return p.topics.OrderCompleted, nil
	default:
		return "", fmt.Errorf("no topic for event type %q", t)
	}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	topic, err := p.topicFor(event.Type)
	if err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := []kafkaGo.Header{
		{Key: "event-type", Value: []byte(event.Type)},
		{Key: "event-id", Value: []byte(event.ID)},
	}
	if err := p.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic:   topic,
		Key:     []byte(event.OrderID),
		Value:   payload,
		Headers: headers,
	}); err != nil {
		return fmt.Errorf("failed to write %s to %s: %w", event.Type, topic, err)
	}

	p.log.Debugf("Messaging: Published %s for order %s to %s", event.Type, event.OrderID, topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
