package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const noteTimeLayout = "2006-01-02 15:04"

// Order represents a cafeteria order entity
type Order struct {
	ID            int
	WorkerID      int
	TableID       *int
	Lines         []OrderLine
	TotalAmount   decimal.Decimal
	Status        Status
	PaymentMethod PaymentMethod
	IsPaid        bool
	PaidAt        *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderLine is one item on an order with the unit price captured when it was added
type OrderLine struct {
	ID        int
	OrderID   int
	ItemID    int
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// NewOrder creates an empty pending order
func NewOrder(workerID int, tableID *int, now time.Time) *Order {
	return &Order{
		WorkerID:    workerID,
		TableID:     tableID,
		TotalAmount: decimal.Zero,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddLine merges qty units of item into the order. A repeated item keeps the
// unit price captured by its first line.
func (o *Order) AddLine(itemID int, qty int, unitPrice decimal.Decimal, now time.Time) (*OrderLine, error) {
	if o.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderTerminal, o.ID, o.Status)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}

	idx := o.lineIndex(itemID)
	if idx < 0 {
		o.Lines = append(o.Lines, OrderLine{
			OrderID:   o.ID,
			ItemID:    itemID,
			UnitPrice: Money(unitPrice),
		})
		idx = len(o.Lines) - 1
	}

	line := &o.Lines[idx]
	line.Quantity += qty
	line.Total = Money(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))

	o.CalculateTotal()
	if o.Status == StatusPending {
		o.Status = StatusInProgress
	}
	o.UpdatedAt = now
	return line, nil
}

func (o *Order) lineIndex(itemID int) int {
	for i := range o.Lines {
		if o.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// Line returns the line for itemID, or nil.
func (o *Order) Line(itemID int) *OrderLine {
	if idx := o.lineIndex(itemID); idx >= 0 {
		return &o.Lines[idx]
	}
	return nil
}

// CalculateTotal recomputes the total from the lines
func (o *Order) CalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Total)
	}
	o.TotalAmount = Money(total)
}

// CanTransitionTo checks if an explicit status change to newStatus is allowed.
// InProgress is only reached by adding a line.
func (o *Order) CanTransitionTo(newStatus Status) bool {
	validTransitions := map[Status][]Status{
		StatusPending:    {StatusCompleted, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusCancelled},
		StatusCompleted:  {},
		StatusCancelled:  {},
	}

	for _, s := range validTransitions[o.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Complete marks a paid order as completed
func (o *Order) Complete(now time.Time) error {
	if err := o.checkTransition(StatusCompleted); err != nil {
		return err
	}
	if !o.IsPaid {
		return fmt.Errorf("%w: order %d total %s is unpaid", ErrPaymentRequired, o.ID, o.TotalAmount.StringFixed(2))
	}
	o.Status = StatusCompleted
	o.UpdatedAt = now
	return nil
}

// Cancel marks the order cancelled. With refund a paid order is marked unpaid
// and the refund is noted; without it a paid order stays paid.
func (o *Order) Cancel(reason string, refund bool, now time.Time) error {
	if err := o.checkTransition(StatusCancelled); err != nil {
		return err
	}
	o.Status = StatusCancelled
	if reason != "" {
		o.AppendNote(fmt.Sprintf("Cancelled on %s: %s", now.Format(noteTimeLayout), reason))
	}
	if o.IsPaid && refund {
		o.IsPaid = false
		o.PaidAt = nil
		o.AppendNote(fmt.Sprintf("Refund issued on %s", now.Format(noteTimeLayout)))
	}
	o.UpdatedAt = now
	return nil
}

func (o *Order) checkTransition(newStatus Status) error {
	if o.Status.IsTerminal() {
		return fmt.Errorf("%w: order %d is %s", ErrOrderTerminal, o.ID, o.Status)
	}
	if !o.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, newStatus)
	}
	return nil
}

// MarkPaid records the payment. The status is left unchanged.
func (o *Order) MarkPaid(method PaymentMethod, now time.Time) error {
	if o.IsPaid {
		return fmt.Errorf("%w: order %d", ErrAlreadyPaid, o.ID)
	}
	if o.Status == StatusCancelled {
		return fmt.Errorf("%w: order %d is %s", ErrOrderTerminal, o.ID, o.Status)
	}
	if !method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidArgument, method)
	}
	paidAt := now
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.PaymentMethod = method
	o.UpdatedAt = now
	return nil
}

// AppendNote adds an entry to the notes log
func (o *Order) AppendNote(note string) {
	if o.Notes == "" {
		o.Notes = note
		return
	}
	o.Notes += "\n" + note
}

// IsPaidCancelled reports a cancelled order that kept its payment
func (o *Order) IsPaidCancelled() bool {
	return o.Status == StatusCancelled && o.IsPaid
}

// Clone returns a deep copy of the order
func (o *Order) Clone() *Order {
	c := *o
	c.Lines = append([]OrderLine(nil), o.Lines...)
	if o.TableID != nil {
		id := *o.TableID
		c.TableID = &id
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	return &c
}
