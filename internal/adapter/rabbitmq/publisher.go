package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher struct {
	conn     Connection
	exchange string
}

// NewPublisher publishes order events to a durable topic exchange, routed by
// event type (order.created, order.status_changed, ...).
func NewPublisher(conn Connection, exchange string) interfaces.EventPublisher {
	return &publisher{conn: conn, exchange: exchange}
}

func (p *publisher) PublishOrderEvent(ctx context.Context, event interfaces.OrderEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// Declare exchange
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.PublishConfirmed(ctx, p.exchange, string(event.Type), amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    event.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
