package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/adapter/memory"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, stock int) (*Ledger, *memory.Store, *domain.Item) {
	t.Helper()
	store := memory.NewStore(time.Second)
	item, err := domain.NewItem("Salad", "", decimal.RequireFromString("6.20"), stock, domain.ItemAvailable, 1)
	require.NoError(t, err)
	require.NoError(t, store.Items().Upsert(context.Background(), item))
	return NewLedger(store, logger.NewNop()), store, item
}

func TestReserveAndReleaseInTx(t *testing.T) {
	ledger, store, item := setup(t, 2)
	ctx := context.Background()

	var granted int
	err := store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		var err error
		granted, err = ledger.Reserve(ctx, tx, item.ID, 5, true)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, granted)

	got, err := store.Items().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, domain.ItemOutOfStock, got.Status)

	err = store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		return ledger.Release(ctx, tx, item.ID, 2)
	})
	require.NoError(t, err)

	got, err = store.Items().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
	assert.Equal(t, domain.ItemAvailable, got.Status)
}

func TestReserveInsufficientLeavesStock(t *testing.T) {
	ledger, store, item := setup(t, 2)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		_, err := ledger.Reserve(ctx, tx, item.ID, 5, false)
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := store.Items().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestSetStatus(t *testing.T) {
	ledger, _, item := setup(t, 4)
	ctx := context.Background()

	_, err := ledger.SetStatus(ctx, item.ID, domain.ItemOutOfStock, interfaces.SetStatusOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	got, err := ledger.SetStatus(ctx, item.ID, domain.ItemOutOfStock, interfaces.SetStatusOptions{ConfirmStockReset: true})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	_, err = ledger.SetStatus(ctx, item.ID, domain.ItemAvailable, interfaces.SetStatusOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	got, err = ledger.SetStatus(ctx, item.ID, domain.ItemAvailable, interfaces.SetStatusOptions{Replenish: 12})
	require.NoError(t, err)
	assert.Equal(t, 12, got.Stock)
	assert.Equal(t, domain.ItemAvailable, got.Status)

	_, err = ledger.SetStatus(ctx, 404, domain.ItemSeasonal, interfaces.SetStatusOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
