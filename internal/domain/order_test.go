package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)

func TestAddLineMergesWithStoredPrice(t *testing.T) {
	o := NewOrder(1, nil, testNow)

	_, err := o.AddLine(10, 2, decimal.RequireFromString("3.00"), testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, o.Status)

	line, err := o.AddLine(10, 1, decimal.RequireFromString("9.99"), testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("3.00")))
	assert.True(t, line.Total.Equal(decimal.RequireFromString("9.00")))

	_, err = o.AddLine(11, 1, decimal.RequireFromString("3.50"), testNow)
	require.NoError(t, err)

	require.Len(t, o.Lines, 2)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("12.50")))
}

func TestTerminalOrderRejectsMutation(t *testing.T) {
	o := NewOrder(1, nil, testNow)
	require.NoError(t, o.Cancel("", false, testNow))

	_, err := o.AddLine(10, 1, decimal.NewFromInt(1), testNow)
	assert.ErrorIs(t, err, ErrOrderTerminal)
	assert.ErrorIs(t, o.Complete(testNow), ErrOrderTerminal)
	assert.ErrorIs(t, o.Cancel("again", false, testNow), ErrOrderTerminal)
}

func TestCompleteRequiresPayment(t *testing.T) {
	o := NewOrder(1, nil, testNow)
	assert.ErrorIs(t, o.Complete(testNow), ErrPaymentRequired)

	o.IsPaid = true
	require.NoError(t, o.Complete(testNow))
	assert.Equal(t, StatusCompleted, o.Status)
}

func TestCancelRefund(t *testing.T) {
	paidAt := testNow.Add(-time.Hour)

	o := NewOrder(1, nil, testNow)
	o.IsPaid, o.PaidAt = true, &paidAt
	require.NoError(t, o.Cancel("customer left", true, testNow))
	assert.False(t, o.IsPaid)
	assert.Nil(t, o.PaidAt)
	assert.Equal(t, "Cancelled on 2024-03-05 12:30: customer left\nRefund issued on 2024-03-05 12:30", o.Notes)

	kept := NewOrder(1, nil, testNow)
	kept.IsPaid, kept.PaidAt = true, &paidAt
	require.NoError(t, kept.Cancel("", false, testNow))
	assert.True(t, kept.IsPaidCancelled())
	assert.Empty(t, kept.Notes)
}

func TestCanTransitionTo(t *testing.T) {
	o := NewOrder(1, nil, testNow)
	assert.False(t, o.CanTransitionTo(StatusInProgress))
	assert.False(t, o.CanTransitionTo(StatusPending))
	assert.True(t, o.CanTransitionTo(StatusCancelled))
	assert.True(t, o.CanTransitionTo(StatusCompleted))
}

func TestWindowIsHalfOpen(t *testing.T) {
	from := testNow
	to := testNow.Add(24 * time.Hour)
	w := Window{From: &from, To: &to}

	assert.True(t, w.Contains(from))
	assert.False(t, w.Contains(to))
	assert.False(t, w.Contains(from.Add(-time.Second)))
	assert.True(t, Window{}.Contains(from))
}

func TestWindowKeyKeepsSubSecondBounds(t *testing.T) {
	from := testNow
	later := testNow.Add(250 * time.Millisecond)

	assert.Equal(t, "2024-03-05T12:30:00Z_-", Window{From: &from}.Key())
	assert.Equal(t, "2024-03-05T12:30:00.25Z_-", Window{From: &later}.Key())
	assert.NotEqual(t, Window{To: &from}.Key(), Window{To: &later}.Key())
	assert.Equal(t, "-_-", Window{}.Key())
}
