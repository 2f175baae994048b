package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 5 * time.Second

type consumer struct {
	conn     Connection
	exchange string
	queue    string
	prefetch int
	logger   logger.Logger
}

func NewConsumer(conn Connection, exchange, queue string, prefetch int, log logger.Logger) interfaces.MessageConsumer {
	return &consumer{
		conn:     conn,
		exchange: exchange,
		queue:    queue,
		prefetch: prefetch,
		logger:   log,
	}
}

// ConsumeOrderEvents delivers every order event to handler until ctx is
// cancelled, reconnecting after broker failures. Events the handler rejects
// are dead-lettered.
func (c *consumer) ConsumeOrderEvents(ctx context.Context, handler interfaces.OrderEventHandler) error {
	for {
		err := c.consume(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", "Order events consumer disconnected, reconnecting", "",
			map[string]interface{}{"queue": c.queue, "retry_in": reconnectDelay.String()}, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *consumer) consume(ctx context.Context, handler interfaces.OrderEventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose(make(chan *amqp.Error, 1))

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := c.setupInfrastructure(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			if err := handler(ctx, msg.Body); err != nil {
				// Send to DLQ
				_ = msg.Nack(false, false)
			} else {
				_ = msg.Ack(false)
			}
		}
	}
}

func (c *consumer) setupInfrastructure(ch Channel) error {
	// Declare main exchange
	if err := ch.ExchangeDeclare(c.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare orders exchange: %w", err)
	}

	// Declare DLQ exchange
	dlqExchange := c.exchange + "_dlq"
	if err := ch.ExchangeDeclare(dlqExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}

	// Declare DLQ queue
	dlqQueue := c.queue + "_dlq"
	if _, err := ch.QueueDeclare(dlqQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	// Bind DLQ
	if err := ch.QueueBind(dlqQueue, "#", dlqExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	// Declare main queue with DLQ binding
	args := amqp.Table{
		"x-dead-letter-exchange": dlqExchange,
	}

	q, err := ch.QueueDeclare(c.queue, true, false, false, false, args)
	if err != nil {
		return fmt.Errorf("failed to declare %s queue: %w", c.queue, err)
	}

	// Bind main queue to every order event
	if err := ch.QueueBind(q.Name, "order.#", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s queue: %w", c.queue, err)
	}

	return nil
}
