package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	EventOrderCreated   OrderEventType = "order.created"
	EventLineAdded      OrderEventType = "order.line_added"
	EventStatusChanged  OrderEventType = "order.status_changed"
	EventPaymentSettled OrderEventType = "order.payment_settled"
)

// RabbitMQ messages
type OrderEvent struct {
	Type        OrderEventType       `json:"type"`
	OrderID     int                  `json:"order_id"`
	WorkerID    int                  `json:"worker_id"`
	TableID     *int                 `json:"table_id,omitempty"`
	OldStatus   domain.Status        `json:"old_status,omitempty"`
	NewStatus   domain.Status        `json:"new_status"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	IsPaid      bool                 `json:"is_paid"`
	Method      domain.PaymentMethod `json:"payment_method,omitempty"`
	Timestamp   time.Time            `json:"timestamp"`
}

// NewOrderEvent snapshots the order after a committed change
func NewOrderEvent(t OrderEventType, o *domain.Order, old domain.Status, at time.Time) OrderEvent {
	return OrderEvent{
		Type:        t,
		OrderID:     o.ID,
		WorkerID:    o.WorkerID,
		TableID:     o.TableID,
		OldStatus:   old,
		NewStatus:   o.Status,
		TotalAmount: o.TotalAmount,
		IsPaid:      o.IsPaid,
		Method:      o.PaymentMethod,
		Timestamp:   at,
	}
}

// Messaging interfaces (Adapter/RabbitMQ)
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

type MessageConsumer interface {
	ConsumeOrderEvents(ctx context.Context, handler OrderEventHandler) error
}

type OrderEventHandler func(ctx context.Context, body []byte) error
