package memory

import (
	"context"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/shopspring/decimal"
)

// reportRepo aggregates over committed state under the read lock.
type reportRepo struct {
	s *Store
}

func (r *reportRepo) ordersIn(w domain.Window) []*domain.Order {
	var orders []*domain.Order
	for _, o := range r.s.orders {
		if w.Contains(o.CreatedAt) {
			orders = append(orders, o)
		}
	}
	return orders
}

func (r *reportRepo) SalesByStatus(ctx context.Context, w domain.Window) ([]domain.StatusSales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := map[domain.Status]*domain.StatusSales{}
	var rows []domain.StatusSales
	for _, o := range r.ordersIn(w) {
		row, ok := idx[o.Status]
		if !ok {
			row = &domain.StatusSales{Status: o.Status, Total: decimal.Zero}
			idx[o.Status] = row
		}
		row.Count++
		row.Total = row.Total.Add(o.TotalAmount)
	}
	for _, row := range idx {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (r *reportRepo) SalesByPaymentMethod(ctx context.Context, w domain.Window) ([]domain.MethodSales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := map[domain.PaymentMethod]*domain.MethodSales{}
	for _, o := range r.ordersIn(w) {
		if !o.IsPaid || o.PaymentMethod == "" {
			continue
		}
		row, ok := idx[o.PaymentMethod]
		if !ok {
			row = &domain.MethodSales{Method: o.PaymentMethod, Total: decimal.Zero}
			idx[o.PaymentMethod] = row
		}
		row.Count++
		row.Total = row.Total.Add(o.TotalAmount)
	}

	rows := make([]domain.MethodSales, 0, len(idx))
	for _, row := range idx {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (r *reportRepo) PaidCancelledCount(ctx context.Context, w domain.Window) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, o := range r.ordersIn(w) {
		if o.IsPaidCancelled() {
			n++
		}
	}
	return n, nil
}

func (r *reportRepo) ItemSales(ctx context.Context, w domain.Window) ([]domain.ItemSales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := map[int]*domain.ItemSales{}
	seen := map[[2]int]bool{}
	for _, o := range r.ordersIn(w) {
		if o.Status == domain.StatusCancelled {
			continue
		}
		for _, line := range o.Lines {
			row, ok := idx[line.ItemID]
			if !ok {
				row = &domain.ItemSales{ItemID: line.ItemID, Sales: decimal.Zero}
				if item, ok := r.s.items[line.ItemID]; ok {
					row.Name = item.Name
					row.CategoryID = item.CategoryID
					if c, ok := r.s.categories[item.CategoryID]; ok {
						row.CategoryName = c.Name
					}
				}
				idx[line.ItemID] = row
			}
			row.Quantity += line.Quantity
			row.Sales = row.Sales.Add(line.Total)
			if key := [2]int{line.ItemID, o.ID}; !seen[key] {
				seen[key] = true
				row.Orders++
			}
		}
	}

	rows := make([]domain.ItemSales, 0, len(idx))
	for _, row := range idx {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (r *reportRepo) CategorySales(ctx context.Context, w domain.Window) ([]domain.CategorySales, error) {
	items, err := r.ItemSales(ctx, w)
	if err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := map[int]*domain.CategorySales{}
	for _, it := range items {
		row, ok := idx[it.CategoryID]
		if !ok {
			row = &domain.CategorySales{CategoryID: it.CategoryID, Name: it.CategoryName, Sales: decimal.Zero}
			idx[it.CategoryID] = row
		}
		row.Sales = row.Sales.Add(it.Sales)
		row.Items++
	}

	rows := make([]domain.CategorySales, 0, len(idx))
	for _, row := range idx {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (r *reportRepo) WorkerSales(ctx context.Context, w domain.Window) ([]domain.WorkerSales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := map[int]*domain.WorkerSales{}
	for _, o := range r.ordersIn(w) {
		row, ok := idx[o.WorkerID]
		if !ok {
			row = &domain.WorkerSales{WorkerID: o.WorkerID, Sales: decimal.Zero}
			if wk, ok := r.s.workers[o.WorkerID]; ok {
				row.Name = wk.Name
			}
			idx[o.WorkerID] = row
		}
		row.Orders++
		switch o.Status {
		case domain.StatusCompleted:
			row.Completed++
		case domain.StatusCancelled:
			row.Cancelled++
		}
		row.Sales = row.Sales.Add(o.TotalAmount)
	}

	rows := make([]domain.WorkerSales, 0, len(idx))
	for _, row := range idx {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (r *reportRepo) DailySales(ctx context.Context, w domain.Window, loc *time.Location) ([]domain.DailySales, error) {
	if loc == nil {
		loc = time.UTC
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := map[time.Time]*domain.DailySales{}
	for _, o := range r.ordersIn(w) {
		y, m, d := o.CreatedAt.In(loc).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		row, ok := idx[day]
		if !ok {
			row = &domain.DailySales{Day: day, Sales: decimal.Zero}
			idx[day] = row
		}
		row.Orders++
		switch o.Status {
		case domain.StatusCompleted:
			row.Completed++
		case domain.StatusCancelled:
			row.Cancelled++
		}
		row.Sales = row.Sales.Add(o.TotalAmount)
	}

	rows := make([]domain.DailySales, 0, len(idx))
	for _, row := range idx {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (r *reportRepo) InventoryByStatus(ctx context.Context) ([]domain.ItemStatusCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := map[domain.ItemStatus]int{}
	for _, i := range r.s.items {
		counts[i.Status]++
	}
	rows := make([]domain.ItemStatusCount, 0, len(counts))
	for status, n := range counts {
		rows = append(rows, domain.ItemStatusCount{Status: status, Count: n})
	}
	return rows, nil
}

func (r *reportRepo) InventoryByCategory(ctx context.Context) ([]domain.CategoryInventory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := map[int]*domain.CategoryInventory{}
	for _, i := range r.s.items {
		row, ok := idx[i.CategoryID]
		if !ok {
			row = &domain.CategoryInventory{CategoryID: i.CategoryID}
			if c, ok := r.s.categories[i.CategoryID]; ok {
				row.Name = c.Name
			}
			idx[i.CategoryID] = row
		}
		row.Total++
		switch i.Status {
		case domain.ItemAvailable:
			row.Available++
		case domain.ItemOutOfStock:
			row.OutOfStock++
		case domain.ItemDiscontinued:
			row.Discontinued++
		case domain.ItemSeasonal:
			row.Seasonal++
		}
	}

	rows := make([]domain.CategoryInventory, 0, len(idx))
	for _, row := range idx {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (r *reportRepo) OutOfStockItems(ctx context.Context) ([]*domain.Item, error) {
	return r.itemsWhere(func(i *domain.Item) bool { return i.Status == domain.ItemOutOfStock }), nil
}

func (r *reportRepo) ZeroStockAvailable(ctx context.Context) ([]*domain.Item, error) {
	return r.itemsWhere(func(i *domain.Item) bool { return i.Status == domain.ItemAvailable && i.Stock == 0 }), nil
}

func (r *reportRepo) itemsWhere(match func(*domain.Item) bool) []*domain.Item {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var items []*domain.Item
	for _, i := range r.s.items {
		if match(i) {
			items = append(items, cloneItem(i))
		}
	}
	return items
}

func (r *reportRepo) ItemDemand(ctx context.Context, status domain.ItemStatus) ([]domain.ItemDemand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := map[int]*domain.ItemDemand{}
	for _, i := range r.s.items {
		if i.Status == status {
			idx[i.ID] = &domain.ItemDemand{ItemID: i.ID, Name: i.Name}
		}
	}
	for _, o := range r.s.orders {
		for _, line := range o.Lines {
			if row, ok := idx[line.ItemID]; ok {
				row.Quantity += line.Quantity
				row.Orders++
			}
		}
	}

	rows := make([]domain.ItemDemand, 0, len(idx))
	for _, row := range idx {
		rows = append(rows, *row)
	}
	return rows, nil
}
