package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/shopspring/decimal"
)

const noteTimeLayout = "2006-01-02 15:04"

// Service reconciles a tendered amount against the order total. It never
// changes the order status.
type Service struct {
	store     interfaces.Store
	publisher interfaces.EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewService(store interfaces.Store, publisher interfaces.EventPublisher, logger logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

var _ interfaces.PaymentService = (*Service)(nil)

func (s *Service) Settle(ctx context.Context, cmd interfaces.SettleCommand) (*interfaces.Settlement, error) {
	now := s.now()
	settlement := &interfaces.Settlement{Change: decimal.Zero, Shortfall: decimal.Zero}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		order, err := tx.Orders().Lock(ctx, cmd.OrderID)
		if err != nil {
			return err
		}

		// 1. Preconditions
		if order.IsPaid {
			return fmt.Errorf("%w: order %d", domain.ErrAlreadyPaid, order.ID)
		}
		if order.Status == domain.StatusCancelled {
			return fmt.Errorf("%w: order %d is %s", domain.ErrOrderTerminal, order.ID, order.Status)
		}
		if cmd.Tendered.IsNegative() {
			return fmt.Errorf("%w: tendered %s", domain.ErrInvalidAmount, cmd.Tendered)
		}
		if !cmd.Method.Valid() {
			return fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidArgument, cmd.Method)
		}

		// 2. Compare with the total
		tendered := domain.Money(cmd.Tendered)
		switch tendered.Cmp(order.TotalAmount) {
		case -1:
			shortfall := order.TotalAmount.Sub(tendered)
			if !cmd.ForcePartial {
				return fmt.Errorf("%w: total %s, tendered %s, short %s", domain.ErrUnderPayment,
					order.TotalAmount.StringFixed(2), tendered.StringFixed(2), shortfall.StringFixed(2))
			}
			settlement.Kind = interfaces.SettlementPartial
			settlement.Shortfall = shortfall
			order.AppendNote(fmt.Sprintf("Partial payment of %s received on %s (short %s).",
				tendered.StringFixed(2), now.Format(noteTimeLayout), shortfall.StringFixed(2)))
		case 1:
			change := tendered.Sub(order.TotalAmount)
			settlement.Kind = interfaces.SettlementOverpaid
			settlement.Change = change
			order.AppendNote(fmt.Sprintf("Change given: %s", change.StringFixed(2)))
		default:
			settlement.Kind = interfaces.SettlementExact
		}

		// 3. Record the payment
		if err := order.MarkPaid(cmd.Method, now); err != nil {
			return err
		}
		if err := tx.Orders().Upsert(ctx, order); err != nil {
			return fmt.Errorf("failed to save order %d: %w", order.ID, err)
		}
		settlement.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("order_paid", "Payment settled", "", map[string]interface{}{
		"order_id": settlement.Order.ID,
		"kind":     settlement.Kind,
		"method":   cmd.Method,
	})
	s.publish(ctx, interfaces.NewOrderEvent(interfaces.EventPaymentSettled, settlement.Order, settlement.Order.Status, now))
	return settlement, nil
}

func (s *Service) publish(ctx context.Context, event interfaces.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish order event", "", map[string]interface{}{
			"order_id": event.OrderID,
			"type":     event.Type,
		}, err)
	}
}
