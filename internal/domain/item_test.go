package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, stock int) *Item {
	t.Helper()
	item, err := NewItem("Soup", "", decimal.RequireFromString("4.25"), stock, ItemAvailable, 1)
	require.NoError(t, err)
	item.ID = 7
	return item
}

func TestNewItemRecouplesStatus(t *testing.T) {
	item, err := NewItem("Tea", "", decimal.RequireFromString("1.5"), 0, ItemAvailable, 1)
	require.NoError(t, err)
	assert.Equal(t, ItemOutOfStock, item.Status)

	item, err = NewItem("Tea", "", decimal.RequireFromString("1.5"), 3, ItemOutOfStock, 1)
	require.NoError(t, err)
	assert.Equal(t, ItemAvailable, item.Status)

	item, err = NewItem("Tea", "", decimal.RequireFromString("1.5"), 0, ItemSeasonal, 1)
	require.NoError(t, err)
	assert.Equal(t, ItemSeasonal, item.Status)
}

func TestNewItemValidation(t *testing.T) {
	cases := map[string]struct {
		name  string
		price string
		stock int
		cat   int
	}{
		"empty name":     {"", "1", 1, 1},
		"zero price":     {"x", "0", 1, 1},
		"negative stock": {"x", "1", -1, 1},
		"no category":    {"x", "1", 1, 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewItem(tc.name, "", decimal.RequireFromString(tc.price), tc.stock, ItemAvailable, tc.cat)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestReserve(t *testing.T) {
	t.Run("decrements and flips to out of stock at zero", func(t *testing.T) {
		item := newTestItem(t, 3)
		granted, err := item.Reserve(3, false)
		require.NoError(t, err)
		assert.Equal(t, 3, granted)
		assert.Equal(t, 0, item.Stock)
		assert.Equal(t, ItemOutOfStock, item.Status)
	})

	t.Run("insufficient stock without partial", func(t *testing.T) {
		item := newTestItem(t, 2)
		_, err := item.Reserve(5, false)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 2, item.Stock)
	})

	t.Run("partial caps to stock", func(t *testing.T) {
		item := newTestItem(t, 2)
		granted, err := item.Reserve(5, true)
		require.NoError(t, err)
		assert.Equal(t, 2, granted)
		assert.Equal(t, ItemOutOfStock, item.Status)
	})

	t.Run("unavailable item", func(t *testing.T) {
		item := newTestItem(t, 2)
		item.Status = ItemDiscontinued
		_, err := item.Reserve(1, false)
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		item := newTestItem(t, 2)
		_, err := item.Reserve(0, false)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestReleaseRestoresAvailability(t *testing.T) {
	item := newTestItem(t, 1)
	_, err := item.Reserve(1, false)
	require.NoError(t, err)

	require.NoError(t, item.Release(4))
	assert.Equal(t, 4, item.Stock)
	assert.Equal(t, ItemAvailable, item.Status)
}

func TestChangeStatus(t *testing.T) {
	t.Run("out of stock requires confirmation", func(t *testing.T) {
		item := newTestItem(t, 5)
		err := item.ChangeStatus(ItemOutOfStock, false, 0)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		assert.Equal(t, 5, item.Stock)

		require.NoError(t, item.ChangeStatus(ItemOutOfStock, true, 0))
		assert.Equal(t, 0, item.Stock)
		assert.Equal(t, ItemOutOfStock, item.Status)
	})

	t.Run("available with zero stock requires replenish", func(t *testing.T) {
		item := newTestItem(t, 0)
		err := item.ChangeStatus(ItemAvailable, false, 0)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)

		require.NoError(t, item.ChangeStatus(ItemAvailable, false, 6))
		assert.Equal(t, 6, item.Stock)
		assert.Equal(t, ItemAvailable, item.Status)
	})

	t.Run("other statuses are free", func(t *testing.T) {
		item := newTestItem(t, 5)
		require.NoError(t, item.ChangeStatus(ItemSeasonal, false, 0))
		assert.Equal(t, 5, item.Stock)
		assert.Equal(t, ItemSeasonal, item.Status)
	})
}
