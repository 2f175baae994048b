package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

// NotificationHandler turns order events into log lines for the floor staff
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

// HandleOrderEvent satisfies interfaces.OrderEventHandler. Malformed bodies are
// returned as errors so the consumer dead-letters them.
func (h *NotificationHandler) HandleOrderEvent(ctx context.Context, body []byte) error {
	var event interfaces.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse order event", "", nil, err)
		return err
	}
	if event.OrderID == 0 || event.Type == "" {
		err := errors.New("order event without type or order id")
		h.logger.Error("message_invalid", "Rejected order event", "", map[string]interface{}{"type": event.Type}, err)
		return err
	}

	ref := strconv.Itoa(event.OrderID)
	details := map[string]interface{}{
		"order_id":     event.OrderID,
		"worker_id":    event.WorkerID,
		"new_status":   event.NewStatus,
		"total_amount": event.TotalAmount.StringFixed(2),
		"is_paid":      event.IsPaid,
	}
	if event.TableID != nil {
		details["table_id"] = *event.TableID
	}

	switch event.Type {
	case interfaces.EventStatusChanged:
		details["old_status"] = event.OldStatus
		h.logger.Info("order_status_notification",
			fmt.Sprintf("Order %d moved from '%s' to '%s'", event.OrderID, event.OldStatus, event.NewStatus),
			ref, details)
	case interfaces.EventPaymentSettled:
		details["payment_method"] = event.Method
		h.logger.Info("order_payment_notification",
			fmt.Sprintf("Order %d paid by %s", event.OrderID, event.Method),
			ref, details)
	default:
		h.logger.Debug("order_event_received",
			fmt.Sprintf("Received %s for order %d", event.Type, event.OrderID),
			ref, details)
	}

	return nil
}
