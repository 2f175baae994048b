package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

// Repositories bound to a nil tx read committed state and run each write in
// its own transaction.

type itemRepo struct {
	s  *Store
	tx *tx
}

func (r *itemRepo) Get(ctx context.Context, id int) (*domain.Item, error) {
	if r.tx != nil {
		if _, gone := r.tx.removedItems[id]; gone {
			return nil, fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
		}
		if i, ok := r.tx.items[id]; ok {
			return cloneItem(i), nil
		}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	return cloneItem(i), nil
}

func (r *itemRepo) Lock(ctx context.Context, id int) (*domain.Item, error) {
	if r.tx != nil {
		if err := r.tx.lock(ctx, itemKey(id)); err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, id)
}

func (r *itemRepo) List(ctx context.Context, filter domain.ItemFilter) ([]*domain.Item, error) {
	r.s.mu.RLock()
	merged := make(map[int]*domain.Item, len(r.s.items))
	for id, i := range r.s.items {
		merged[id] = i
	}
	r.s.mu.RUnlock()

	if r.tx != nil {
		for id, i := range r.tx.items {
			merged[id] = i
		}
		for id := range r.tx.removedItems {
			delete(merged, id)
		}
	}

	items := make([]*domain.Item, 0, len(merged))
	for _, i := range merged {
		if filter.Match(i) {
			items = append(items, cloneItem(i))
		}
	}
	sort.Slice(items, func(a, b int) bool {
		if items[a].Name != items[b].Name {
			return items[a].Name < items[b].Name
		}
		return items[a].ID < items[b].ID
	})
	return items, nil
}

func (r *itemRepo) Upsert(ctx context.Context, item *domain.Item) error {
	if r.tx == nil {
		return r.s.WithinTx(ctx, func(ctx context.Context, t interfaces.Tx) error {
			return t.Items().Upsert(ctx, item)
		})
	}
	if item.ID == 0 {
		item.ID = nextID(&r.s.itemSeq)
	}
	r.tx.items[item.ID] = cloneItem(item)
	delete(r.tx.removedItems, item.ID)
	return nil
}

func (r *itemRepo) Remove(ctx context.Context, id int) error {
	if r.tx == nil {
		return r.s.WithinTx(ctx, func(ctx context.Context, t interfaces.Tx) error {
			return t.Items().Remove(ctx, id)
		})
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if referenced, _ := r.tx.Orders().ExistsForItem(ctx, id); referenced {
		return fmt.Errorf("%w: item %d is on an order", domain.ErrReferentialConflict, id)
	}
	delete(r.tx.items, id)
	r.tx.removedItems[id] = struct{}{}
	return nil
}

type orderRepo struct {
	s  *Store
	tx *tx
}

func (r *orderRepo) Get(ctx context.Context, id int) (*domain.Order, error) {
	if r.tx != nil {
		if o, ok := r.tx.orders[id]; ok {
			return o.Clone(), nil
		}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	return o.Clone(), nil
}

func (r *orderRepo) Lock(ctx context.Context, id int) (*domain.Order, error) {
	if r.tx != nil {
		if err := r.tx.lock(ctx, orderKey(id)); err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, id)
}

func (r *orderRepo) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	r.s.mu.RLock()
	merged := make(map[int]*domain.Order, len(r.s.orders))
	for id, o := range r.s.orders {
		merged[id] = o
	}
	r.s.mu.RUnlock()

	if r.tx != nil {
		for id, o := range r.tx.orders {
			merged[id] = o
		}
	}

	orders := make([]*domain.Order, 0, len(merged))
	for _, o := range merged {
		if filter.Match(o) {
			orders = append(orders, o.Clone())
		}
	}
	sort.Slice(orders, func(a, b int) bool { return orders[a].ID < orders[b].ID })
	return orders, nil
}

func (r *orderRepo) Upsert(ctx context.Context, order *domain.Order) error {
	if r.tx == nil {
		return r.s.WithinTx(ctx, func(ctx context.Context, t interfaces.Tx) error {
			return t.Orders().Upsert(ctx, order)
		})
	}
	if order.ID == 0 {
		order.ID = nextID(&r.s.orderSeq)
	}
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
		if order.Lines[i].ID == 0 {
			order.Lines[i].ID = nextID(&r.s.lineSeq)
		}
	}
	r.tx.orders[order.ID] = order.Clone()
	return nil
}

func (r *orderRepo) ExistsForItem(ctx context.Context, itemID int) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var staged map[int]*domain.Order
	if r.tx != nil {
		staged = r.tx.orders
	}
	return r.s.itemReferencedLocked(itemID, staged), nil
}

type tableRepo struct {
	s  *Store
	tx *tx
}

func (r *tableRepo) Get(ctx context.Context, id int) (*domain.Table, error) {
	if r.tx != nil {
		if t, ok := r.tx.tables[id]; ok {
			return cloneTable(t), nil
		}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: table %d", domain.ErrNotFound, id)
	}
	return cloneTable(t), nil
}

func (r *tableRepo) Lock(ctx context.Context, id int) (*domain.Table, error) {
	if r.tx != nil {
		if err := r.tx.lock(ctx, tableKey(id)); err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, id)
}

func (r *tableRepo) List(ctx context.Context, onlyFree bool) ([]*domain.Table, error) {
	r.s.mu.RLock()
	merged := make(map[int]*domain.Table, len(r.s.tables))
	for id, t := range r.s.tables {
		merged[id] = t
	}
	r.s.mu.RUnlock()

	if r.tx != nil {
		for id, t := range r.tx.tables {
			merged[id] = t
		}
	}

	tables := make([]*domain.Table, 0, len(merged))
	for _, t := range merged {
		if onlyFree && t.IsOccupied {
			continue
		}
		tables = append(tables, cloneTable(t))
	}
	sort.Slice(tables, func(a, b int) bool { return tables[a].ID < tables[b].ID })
	return tables, nil
}

func (r *tableRepo) Upsert(ctx context.Context, table *domain.Table) error {
	if r.tx == nil {
		return r.s.WithinTx(ctx, func(ctx context.Context, t interfaces.Tx) error {
			return t.Tables().Upsert(ctx, table)
		})
	}
	if table.ID == 0 {
		table.ID = nextID(&r.s.tableSeq)
	}
	r.tx.tables[table.ID] = cloneTable(table)
	return nil
}

type workerRepo struct {
	s  *Store
	tx *tx
}

func (r *workerRepo) Get(ctx context.Context, id int) (*domain.Worker, error) {
	if r.tx != nil {
		if w, ok := r.tx.workers[id]; ok {
			return cloneWorker(w), nil
		}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.workers[id]
	if !ok {
		return nil, fmt.Errorf("%w: worker %d", domain.ErrNotFound, id)
	}
	return cloneWorker(w), nil
}

func (r *workerRepo) GetByUsername(ctx context.Context, username string) (*domain.Worker, error) {
	workers, err := r.List(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, w := range workers {
		if strings.EqualFold(w.Username, username) {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: worker %q", domain.ErrNotFound, username)
}

func (r *workerRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Worker, error) {
	r.s.mu.RLock()
	merged := make(map[int]*domain.Worker, len(r.s.workers))
	for id, w := range r.s.workers {
		merged[id] = w
	}
	r.s.mu.RUnlock()

	if r.tx != nil {
		for id, w := range r.tx.workers {
			merged[id] = w
		}
	}

	workers := make([]*domain.Worker, 0, len(merged))
	for _, w := range merged {
		if activeOnly && !w.IsActive {
			continue
		}
		workers = append(workers, cloneWorker(w))
	}
	sort.Slice(workers, func(a, b int) bool {
		if workers[a].Name != workers[b].Name {
			return workers[a].Name < workers[b].Name
		}
		return workers[a].ID < workers[b].ID
	})
	return workers, nil
}

func (r *workerRepo) Upsert(ctx context.Context, worker *domain.Worker) error {
	if r.tx == nil {
		return r.s.WithinTx(ctx, func(ctx context.Context, t interfaces.Tx) error {
			return t.Workers().Upsert(ctx, worker)
		})
	}
	if existing, err := r.GetByUsername(ctx, worker.Username); err == nil && existing.ID != worker.ID {
		return fmt.Errorf("%w: username %q", domain.ErrDuplicate, worker.Username)
	}
	if worker.ID == 0 {
		worker.ID = nextID(&r.s.workerSeq)
	}
	r.tx.workers[worker.ID] = cloneWorker(worker)
	return nil
}

func (r *workerRepo) CountActiveSupervisors(ctx context.Context, excludeID int) (int, error) {
	workers, err := r.List(ctx, true)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, w := range workers {
		if w.ID != excludeID && w.IsActiveSupervisor() {
			n++
		}
	}
	return n, nil
}

type categoryRepo struct {
	s  *Store
	tx *tx
}

func (r *categoryRepo) Get(ctx context.Context, id int) (*domain.Category, error) {
	if r.tx != nil {
		if c, ok := r.tx.categories[id]; ok {
			return cloneCategory(c), nil
		}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %d", domain.ErrNotFound, id)
	}
	return cloneCategory(c), nil
}

func (r *categoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	r.s.mu.RLock()
	merged := make(map[int]*domain.Category, len(r.s.categories))
	for id, c := range r.s.categories {
		merged[id] = c
	}
	r.s.mu.RUnlock()

	if r.tx != nil {
		for id, c := range r.tx.categories {
			merged[id] = c
		}
	}

	categories := make([]*domain.Category, 0, len(merged))
	for _, c := range merged {
		categories = append(categories, cloneCategory(c))
	}
	sort.Slice(categories, func(a, b int) bool { return categories[a].Name < categories[b].Name })
	return categories, nil
}

func (r *categoryRepo) Upsert(ctx context.Context, category *domain.Category) error {
	if r.tx == nil {
		return r.s.WithinTx(ctx, func(ctx context.Context, t interfaces.Tx) error {
			return t.Categories().Upsert(ctx, category)
		})
	}
	if category.ID == 0 {
		category.ID = nextID(&r.s.categorySeq)
	}
	r.tx.categories[category.ID] = cloneCategory(category)
	return nil
}
