package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItem(t *testing.T, s *Store, stock int) *domain.Item {
	t.Helper()
	item, err := domain.NewItem("Pie", "", decimal.NewFromInt(3), stock, domain.ItemAvailable, 1)
	require.NoError(t, err)
	require.NoError(t, s.Items().Upsert(context.Background(), item))
	return item
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	item := seedItem(t, s, 5)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		locked, err := tx.Items().Lock(ctx, item.ID)
		require.NoError(t, err)
		locked.Stock = 1
		require.NoError(t, tx.Items().Upsert(ctx, locked))

		staged, err := tx.Items().Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, staged.Stock)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Items().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestLockWaitIsBounded(t *testing.T) {
	ctx := context.Background()
	s := NewStore(50 * time.Millisecond)
	item := seedItem(t, s, 5)

	held := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
			_, err := tx.Items().Lock(ctx, item.ID)
			close(held)
			<-done
			return err
		})
	}()
	<-held

	err := s.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		_, err := tx.Items().Lock(ctx, item.ID)
		return err
	})
	close(done)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestRemoveReferencedItem(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	item := seedItem(t, s, 5)

	order := domain.NewOrder(1, nil, time.Now())
	_, err := order.AddLine(item.ID, 1, item.Price, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Orders().Upsert(ctx, order))
	assert.NotZero(t, order.Lines[0].ID)

	exists, err := s.Orders().ExistsForItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	err = s.Items().Remove(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrReferentialConflict)

	free := seedItem(t, s, 1)
	require.NoError(t, s.Items().Remove(ctx, free.ID))
	_, err = s.Items().Get(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)

	w1, err := domain.NewWorker("Ann", "ann", domain.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, s.Workers().Upsert(ctx, w1))

	w2, err := domain.NewWorker("Another Ann", "ANN", "")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Workers().Upsert(ctx, w2), domain.ErrDuplicate)

	n, err := s.Workers().CountActiveSupervisors(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Workers().CountActiveSupervisors(ctx, w1.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCommittedReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	item := seedItem(t, s, 5)

	got, err := s.Items().Get(ctx, item.ID)
	require.NoError(t, err)
	got.Stock = 0

	again, err := s.Items().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Stock)
}
