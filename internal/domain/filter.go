package domain

import "time"

// ItemFilter narrows item listings. Zero values match everything.
type ItemFilter struct {
	CategoryID  int
	Statuses    []ItemStatus
	InStockOnly bool
}

func (f ItemFilter) Match(i *Item) bool {
	if f.CategoryID != 0 && i.CategoryID != f.CategoryID {
		return false
	}
	if f.InStockOnly && i.Stock == 0 {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if i.Status == s {
			return true
		}
	}
	return false
}

// OrderFilter narrows order listings. Zero values match everything.
type OrderFilter struct {
	Statuses []Status
	Unpaid   bool
	WorkerID int
}

func (f OrderFilter) Match(o *Order) bool {
	if f.Unpaid && o.IsPaid {
		return false
	}
	if f.WorkerID != 0 && o.WorkerID != f.WorkerID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// Window is a half-open [From, To) range over order creation time. A nil
// bound is unbounded on that side.
type Window struct {
	From *time.Time
	To   *time.Time
}

func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && !t.Before(*w.To) {
		return false
	}
	return true
}

// Key renders the window for cache keys and logs
func (w Window) Key() string {
	from, to := "-", "-"
	if w.From != nil {
		from = w.From.UTC().Format(time.RFC3339Nano)
	}
	if w.To != nil {
		to = w.To.UTC().Format(time.RFC3339Nano)
	}
	return from + "_" + to
}
