package payment

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

var settledAt = time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore(time.Second)
	svc := NewService(store, nil, logger.NewNop())
	svc.now = func() time.Time { return settledAt }
	return svc, store
}

func seedOrder(t *testing.T, store *memory.Store, total string) *domain.Order {
	t.Helper()
	o := domain.NewOrder(1, nil, settledAt)
	if total != "0" {
		_, err := o.AddLine(1, 1, decimal.RequireFromString(total), settledAt)
		require.NoError(t, err)
	}
	require.NoError(t, store.Orders().Upsert(context.Background(), o))
	return o
}

func TestSettleOverpayment(t *testing.T) {
	svc, store := newTestService(t)
	o := seedOrder(t, store, "12.50")

	res, err := svc.Settle(context.Background(), interfaces.SettleCommand{
		OrderID:  o.ID,
		Method:   domain.PaymentCash,
		Tendered: decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, interfaces.SettlementOverpaid, res.Kind)
	assert.True(t, res.Change.Equal(decimal.RequireFromString("7.50")))
	assert.True(t, res.Order.IsPaid)
	assert.Equal(t, domain.PaymentCash, res.Order.PaymentMethod)
	require.NotNil(t, res.Order.PaidAt)
	assert.Equal(t, settledAt, *res.Order.PaidAt)
	assert.Equal(t, "Change given: 7.50", res.Order.Notes)
	assert.Equal(t, domain.StatusInProgress, res.Order.Status)
}

func TestSettleExact(t *testing.T) {
	svc, store := newTestService(t)
	o := seedOrder(t, store, "8.00")

	res, err := svc.Settle(context.Background(), interfaces.SettleCommand{
		OrderID:  o.ID,
		Method:   domain.PaymentDebitCard,
		Tendered: decimal.RequireFromString("8"),
	})
	require.NoError(t, err)
	assert.Equal(t, interfaces.SettlementExact, res.Kind)
	assert.True(t, res.Change.IsZero())
	assert.Empty(t, res.Order.Notes)
}

func TestSettleUnderpayment(t *testing.T) {
	svc, store := newTestService(t)
	o := seedOrder(t, store, "10.00")
	ctx := context.Background()

	_, err := svc.Settle(ctx, interfaces.SettleCommand{
		OrderID:  o.ID,
		Method:   domain.PaymentCash,
		Tendered: decimal.RequireFromString("6.00"),
	})
	require.ErrorIs(t, err, domain.ErrUnderPayment)

	got, err := store.Orders().Get(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPaid)

	res, err := svc.Settle(ctx, interfaces.SettleCommand{
		OrderID:      o.ID,
		Method:       domain.PaymentCash,
		Tendered:     decimal.RequireFromString("6.00"),
		ForcePartial: true,
	})
	require.NoError(t, err)
	assert.Equal(t, interfaces.SettlementPartial, res.Kind)
	assert.True(t, res.Shortfall.Equal(decimal.RequireFromString("4.00")))
	assert.True(t, res.Order.IsPaid)
	assert.Equal(t, "Partial payment of 6.00 received on 2024-03-05 13:45 (short 4.00).", res.Order.Notes)
}

func TestSettleIsIdempotentlyRejected(t *testing.T) {
	svc, store := newTestService(t)
	o := seedOrder(t, store, "5.00")
	ctx := context.Background()
	cmd := interfaces.SettleCommand{OrderID: o.ID, Method: domain.PaymentCreditCard, Tendered: decimal.RequireFromString("5")}

	first, err := svc.Settle(ctx, cmd)
	require.NoError(t, err)

	cmd.Method = domain.PaymentCash
	_, err = svc.Settle(ctx, cmd)
	require.ErrorIs(t, err, domain.ErrAlreadyPaid)

	got, err := store.Orders().Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCreditCard, got.PaymentMethod)
	assert.Equal(t, *first.Order.PaidAt, *got.PaidAt)
	assert.Equal(t, first.Order.Notes, got.Notes)
}

func TestSettleValidation(t *testing.T) {
	svc, store := newTestService(t)
	o := seedOrder(t, store, "5.00")
	ctx := context.Background()

	_, err := svc.Settle(ctx, interfaces.SettleCommand{OrderID: o.ID, Method: domain.PaymentCash, Tendered: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Settle(ctx, interfaces.SettleCommand{OrderID: o.ID, Method: "barter", Tendered: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Settle(ctx, interfaces.SettleCommand{OrderID: 404, Method: domain.PaymentCash, Tendered: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettleCancelledOrder(t *testing.T) {
	svc, store := newTestService(t)
	o := seedOrder(t, store, "5.00")
	require.NoError(t, o.Cancel("", false, settledAt))
	require.NoError(t, store.Orders().Upsert(context.Background(), o))

	_, err := svc.Settle(context.Background(), interfaces.SettleCommand{OrderID: o.ID, Method: domain.PaymentCash, Tendered: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrOrderTerminal)
}
