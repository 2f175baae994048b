package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/app/inventory"
	"github.com/YelzhanWeb/cafeteria/internal/app/table"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

// Service runs every order mutation in one store transaction. Rows are locked
// in a fixed order: the order, then its table, then items by ascending ID.
type Service struct {
	store     interfaces.Store
	ledger    *inventory.Ledger
	tables    *table.Tracker
	publisher interfaces.EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

// NewService wires the order service. publisher may be nil.
func NewService(
	store interfaces.Store,
	ledger *inventory.Ledger,
	tables *table.Tracker,
	publisher interfaces.EventPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		store:     store,
		ledger:    ledger,
		tables:    tables,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

var _ interfaces.OrderService = (*Service)(nil)

func (s *Service) Create(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	now := s.now()
	var order *domain.Order

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		// 1. Worker must exist and be active
		worker, err := tx.Workers().Get(ctx, cmd.WorkerID)
		if err != nil {
			return err
		}
		if !worker.IsActive {
			return fmt.Errorf("%w: worker %d", domain.ErrWorkerInactive, worker.ID)
		}

		// 2. Occupy the table
		if cmd.TableID != nil {
			if err := s.tables.Occupy(ctx, tx, *cmd.TableID); err != nil {
				if errors.Is(err, domain.ErrAlreadyOccupied) {
					return fmt.Errorf("%w: %w", domain.ErrTableUnavailable, err)
				}
				return err
			}
		}

		// 3. Save the empty order
		order = domain.NewOrder(worker.ID, cmd.TableID, now)
		return tx.Orders().Upsert(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("order_created", "Order created", "", map[string]interface{}{"order_id": order.ID})
	s.publish(ctx, interfaces.NewOrderEvent(interfaces.EventOrderCreated, order, "", now))
	return order, nil
}

func (s *Service) AddLine(ctx context.Context, cmd interfaces.AddLineCommand) (*interfaces.AddLineResult, error) {
	if cmd.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidArgument)
	}

	now := s.now()
	result := &interfaces.AddLineResult{Requested: cmd.Quantity}
	var oldStatus domain.Status

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		order, err := tx.Orders().Lock(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return fmt.Errorf("%w: order %d is %s", domain.ErrOrderTerminal, order.ID, order.Status)
		}
		oldStatus = order.Status

		// 1. Take stock
		granted, err := s.ledger.Reserve(ctx, tx, cmd.ItemID, cmd.Quantity, cmd.AllowPartialFulfillment)
		if err != nil {
			return err
		}
		item, err := tx.Items().Get(ctx, cmd.ItemID)
		if err != nil {
			return err
		}

		// 2. Merge the line and recompute the total
		if _, err := order.AddLine(item.ID, granted, item.Price, now); err != nil {
			return err
		}
		if err := tx.Orders().Upsert(ctx, order); err != nil {
			return fmt.Errorf("failed to save order %d: %w", order.ID, err)
		}

		result.Order = order
		result.Line = *order.Line(item.ID)
		result.Granted = granted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("order_line_added", "Line added to order", "", map[string]interface{}{
		"order_id":  result.Order.ID,
		"item_id":   cmd.ItemID,
		"requested": result.Requested,
		"granted":   result.Granted,
	})
	s.publish(ctx, interfaces.NewOrderEvent(interfaces.EventLineAdded, result.Order, oldStatus, now))
	return result, nil
}

func (s *Service) ChangeStatus(ctx context.Context, cmd interfaces.ChangeStatusCommand) (*domain.Order, error) {
	return s.transition(ctx, cmd.OrderID, cmd.Status, "", cmd.Refund)
}

// CancelWithReason cancels the order and records reason in its notes.
func (s *Service) CancelWithReason(ctx context.Context, orderID int, reason string, refund bool) (*domain.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", domain.ErrInvalidArgument)
	}
	return s.transition(ctx, orderID, domain.StatusCancelled, reason, refund)
}

func (s *Service) transition(ctx context.Context, orderID int, target domain.Status, reason string, refund bool) (*domain.Order, error) {
	now := s.now()
	var order *domain.Order
	var oldStatus domain.Status

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		var err error
		order, err = tx.Orders().Lock(ctx, orderID)
		if err != nil {
			return err
		}
		oldStatus = order.Status

		switch {
		case order.Status.IsTerminal():
			return fmt.Errorf("%w: order %d is %s", domain.ErrOrderTerminal, order.ID, order.Status)
		case target == domain.StatusCompleted:
			if err := order.Complete(now); err != nil {
				return err
			}
		case target == domain.StatusCancelled:
			if err := order.Cancel(reason, refund, now); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, target)
		}

		// 1. Free the table
		if order.TableID != nil {
			if err := s.tables.Release(ctx, tx, *order.TableID); err != nil {
				return err
			}
		}

		// 2. Return stock for every line
		if order.Status == domain.StatusCancelled {
			if err := s.restock(ctx, tx, order); err != nil {
				return err
			}
		}

		return tx.Orders().Upsert(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("order_status_changed", "Order status changed", "", map[string]interface{}{
		"order_id":   order.ID,
		"old_status": oldStatus,
		"new_status": order.Status,
	})
	s.publish(ctx, interfaces.NewOrderEvent(interfaces.EventStatusChanged, order, oldStatus, now))
	return order, nil
}

func (s *Service) restock(ctx context.Context, tx interfaces.Tx, order *domain.Order) error {
	lines := append([]domain.OrderLine(nil), order.Lines...)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })

	for _, line := range lines {
		if err := s.ledger.Release(ctx, tx, line.ItemID, line.Quantity); err != nil {
			return fmt.Errorf("failed to restock item %d: %w", line.ItemID, err)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Order, error) {
	return s.store.Orders().Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	return s.store.Orders().List(ctx, filter)
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
