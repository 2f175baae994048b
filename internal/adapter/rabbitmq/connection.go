package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/YelzhanWeb/cafeteria/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

var errConnectionClosed = errors.New("rabbitmq connection is closed")

// Connection hands out channels on a broker connection that is redialed on
// demand after the broker drops it.
type Connection interface {
	Channel() (Channel, error)
	Ping() error
	Close() error
}

// Channel is the part of *amqp.Channel the publisher and consumer use
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	// PublishConfirmed returns once the broker has taken responsibility for msg
	PublishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	NotifyClose(c chan *amqp.Error) chan *amqp.Error
	Close() error
}

type connection struct {
	url string

	mu     sync.Mutex
	conn   *amqp.Connection
	closed bool
}

func Connect(cfg config.RabbitMQConfig) (Connection, error) {
	c := &connection{url: dialURL(cfg)}
	if err := c.dial(); err != nil {
		return nil, err
	}
	return c, nil
}

// dialURL escapes the credentials; an empty vhost or "/" selects the default one
func dialURL(cfg config.RabbitMQConfig) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/",
	}
	if vhost := strings.TrimPrefix(cfg.VHost, "/"); vhost != "" {
		u.Path = "/" + vhost
	}
	return u.String()
}

// dial must run with c.mu held or before c is shared
func (c *connection) dial() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	c.conn = conn
	return nil
}

func (c *connection) Channel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errConnectionClosed
	}
	if c.conn == nil || c.conn.IsClosed() {
		if err := c.dial(); err != nil {
			return nil, err
		}
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &channel{Channel: ch}, nil
}

func (c *connection) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.conn == nil || c.conn.IsClosed() {
		return errConnectionClosed
	}
	return nil
}

func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}

type channel struct {
	*amqp.Channel
	confirming bool
}

func (ch *channel) PublishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	if !ch.confirming {
		if err := ch.Confirm(false); err != nil {
			return fmt.Errorf("failed to enable publisher confirms: %w", err)
		}
		ch.confirming = true
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return err
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return fmt.Errorf("broker rejected message with routing key %s", key)
	}
	return nil
}
