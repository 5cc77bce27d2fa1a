package messaging

import (
	"context"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.EventPublisher = (*LogPublisher)(nil)

// LogPublisher records order events in the log. Used when no brokers are
// configured.
type LogPublisher struct {
	log *logrus.Logger
}

func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	return &LogPublisher{log: logger}
}

func (p *LogPublisher) PublishOrderEvent(_ context.Context, event domain.OrderEvent) error {
	p.log.WithFields(logrus.Fields{
		"event":    event.Type,
		"order_id": event.OrderID,
		"user_id":  event.UserID,
		"total":    event.Total,
		"items":    event.Items,
	}).Info("Messaging: Order event")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
