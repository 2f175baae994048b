package domain

import "fmt"

// Table is a seating location an order may be attached to. IsOccupied is
// driven by the orders placed on it.
type Table struct {
	ID         int
	Number     string
	Capacity   int
	IsOccupied bool
}

func NewTable(number string, capacity int) (*Table, error) {
	if number == "" {
		return nil, fmt.Errorf("%w: table number is required", ErrInvalidArgument)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: table capacity must be positive", ErrInvalidArgument)
	}
	return &Table{Number: number, Capacity: capacity}, nil
}

// Occupy marks the table as taken by a new order
func (t *Table) Occupy() error {
	if t.IsOccupied {
		return fmt.Errorf("%w: table %s", ErrAlreadyOccupied, t.Number)
	}
	t.IsOccupied = true
	return nil
}

// Release frees the table. Releasing a free table is a no-op.
func (t *Table) Release() {
	t.IsOccupied = false
}
