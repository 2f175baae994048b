package table

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

// Tracker derives table occupancy from order transitions. Occupy and Release
// are called by the order service only, inside its transaction.
type Tracker struct {
	store interfaces.Store
}

func NewTracker(store interfaces.Store) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) Occupy(ctx context.Context, tx interfaces.Tx, tableID int) error {
	table, err := tx.Tables().Lock(ctx, tableID)
	if err != nil {
		return err
	}
	if err := table.Occupy(); err != nil {
		return err
	}
	return tx.Tables().Upsert(ctx, table)
}

// Release frees the table. A free table is left untouched.
func (t *Tracker) Release(ctx context.Context, tx interfaces.Tx, tableID int) error {
	table, err := tx.Tables().Lock(ctx, tableID)
	if err != nil {
		return err
	}
	if !table.IsOccupied {
		return nil
	}
	table.Release()
	return tx.Tables().Upsert(ctx, table)
}

func (t *Tracker) AddTable(ctx context.Context, number string, capacity int) (*domain.Table, error) {
	table, err := domain.NewTable(number, capacity)
	if err != nil {
		return nil, err
	}
	if err := t.store.Tables().Upsert(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to save table: %w", err)
	}
	return table, nil
}

func (t *Tracker) List(ctx context.Context, onlyFree bool) ([]*domain.Table, error) {
	return t.store.Tables().List(ctx, onlyFree)
}
