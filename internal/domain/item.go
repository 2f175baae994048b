package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a menu item with its stock level
type Item struct {
	ID          int
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Status      ItemStatus
	CategoryID  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups menu items
type Category struct {
	ID          int
	Name        string
	Description string
}

// NewItem creates an item with the stock/status coupling applied
func NewItem(name, description string, price decimal.Decimal, stock int, status ItemStatus, categoryID int) (*Item, error) {
	if status == "" {
		status = ItemAvailable
	}
	item := &Item{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       Money(price),
		Stock:       stock,
		Status:      status,
		CategoryID:  categoryID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item.Recouple()
	return item, nil
}

// Validate applies business validation rules
func (i *Item) Validate() error {
	if len(i.Name) < 1 || len(i.Name) > 100 {
		return fmt.Errorf("%w: item name must be 1-100 characters", ErrInvalidArgument)
	}
	if !i.Price.IsPositive() {
		return fmt.Errorf("%w: item price must be positive", ErrInvalidArgument)
	}
	if i.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidArgument)
	}
	if !i.Status.Valid() {
		return fmt.Errorf("%w: unknown item status %q", ErrInvalidArgument, i.Status)
	}
	if i.CategoryID <= 0 {
		return fmt.Errorf("%w: category is required", ErrInvalidArgument)
	}
	return nil
}

// Orderable reports whether a line for this item may be added to an order.
func (i *Item) Orderable() bool {
	return i.Status == ItemAvailable && i.Stock > 0
}

// Recouple restores the Available/OutOfStock coupling after a direct stock edit.
// Discontinued and Seasonal items keep their status.
func (i *Item) Recouple() {
	switch {
	case i.Stock == 0 && i.Status == ItemAvailable:
		i.Status = ItemOutOfStock
	case i.Stock > 0 && i.Status == ItemOutOfStock:
		i.Status = ItemAvailable
	}
}

// Reserve takes qty units out of stock. With allowPartial a request above the
// current stock is capped to it; the granted quantity is returned.
func (i *Item) Reserve(qty int, allowPartial bool) (int, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	if !i.Orderable() {
		return 0, fmt.Errorf("%w: item %d is %s with %d in stock", ErrItemUnavailable, i.ID, i.Status, i.Stock)
	}
	if qty > i.Stock {
		if !allowPartial {
			return 0, fmt.Errorf("%w: item %d available %d, requested %d", ErrInsufficientStock, i.ID, i.Stock, qty)
		}
		qty = i.Stock
	}

	i.Stock -= qty
	if i.Stock == 0 {
		i.Status = ItemOutOfStock
	}
	i.UpdatedAt = time.Now()
	return qty, nil
}

// Release returns qty units to stock.
func (i *Item) Release(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	i.Stock += qty
	if i.Status == ItemOutOfStock {
		i.Status = ItemAvailable
	}
	i.UpdatedAt = time.Now()
	return nil
}

// ChangeStatus sets a new status. Moving to OutOfStock zeroes a positive stock
// only when confirmStockReset is set; moving to Available with no stock needs a
// positive replenish quantity.
func (i *Item) ChangeStatus(status ItemStatus, confirmStockReset bool, replenish int) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown item status %q", ErrInvalidArgument, status)
	}
	if replenish < 0 {
		return fmt.Errorf("%w: replenish quantity cannot be negative", ErrInvalidArgument)
	}

	switch status {
	case ItemOutOfStock:
		if i.Stock > 0 && !confirmStockReset {
			return fmt.Errorf("%w: setting item %d out of stock discards %d units, confirmation required",
				ErrInvalidStatusTransition, i.ID, i.Stock)
		}
		i.Stock = 0
	case ItemAvailable:
		if i.Stock == 0 {
			if replenish == 0 {
				return fmt.Errorf("%w: item %d cannot be available with zero stock", ErrInvalidStatusTransition, i.ID)
			}
			i.Stock = replenish
		}
	}

	i.Status = status
	i.UpdatedAt = time.Now()
	return nil
}
