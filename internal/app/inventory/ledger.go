package inventory

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

// Ledger keeps item stock and item status coupled. Reserve and Release run
// inside the caller's transaction; SetStatus opens its own.
type Ledger struct {
	store  interfaces.Store
	logger logger.Logger
}

func NewLedger(store interfaces.Store, logger logger.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger,
	}
}

// Reserve takes up to qty units of the item and returns how many were granted.
func (l *Ledger) Reserve(ctx context.Context, tx interfaces.Tx, itemID, qty int, allowPartial bool) (int, error) {
	item, err := tx.Items().Lock(ctx, itemID)
	if err != nil {
		return 0, err
	}

	granted, err := item.Reserve(qty, allowPartial)
	if err != nil {
		return 0, err
	}

	if err := tx.Items().Upsert(ctx, item); err != nil {
		return 0, fmt.Errorf("failed to save item %d: %w", itemID, err)
	}
	return granted, nil
}

func (l *Ledger) Release(ctx context.Context, tx interfaces.Tx, itemID, qty int) error {
	item, err := tx.Items().Lock(ctx, itemID)
	if err != nil {
		return err
	}

	if err := item.Release(qty); err != nil {
		return err
	}

	if err := tx.Items().Upsert(ctx, item); err != nil {
		return fmt.Errorf("failed to save item %d: %w", itemID, err)
	}
	return nil
}

func (l *Ledger) SetStatus(ctx context.Context, itemID int, status domain.ItemStatus, opts interfaces.SetStatusOptions) (*domain.Item, error) {
	var item *domain.Item
	err := l.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		var err error
		item, err = tx.Items().Lock(ctx, itemID)
		if err != nil {
			return err
		}
		if err := item.ChangeStatus(status, opts.ConfirmStockReset, opts.Replenish); err != nil {
			return err
		}
		return tx.Items().Upsert(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("item_status_changed", "Item status changed", "", map[string]interface{}{
		"item_id": item.ID,
		"status":  item.Status,
		"stock":   item.Stock,
	})
	return item, nil
}
