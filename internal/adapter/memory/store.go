// Package memory is an in-process implementation of the persistence
// collaborator. Committed state lives in maps behind a read/write mutex; a
// transaction stages copies and applies them at commit.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

const DefaultLockTimeout = 5 * time.Second

type Store struct {
	mu         sync.RWMutex
	items      map[int]*domain.Item
	orders     map[int]*domain.Order
	tables     map[int]*domain.Table
	workers    map[int]*domain.Worker
	categories map[int]*domain.Category

	itemSeq, orderSeq, lineSeq, tableSeq, workerSeq, categorySeq atomic.Int64

	locks       *keyedLocks
	lockTimeout time.Duration
}

func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Store{
		items:       make(map[int]*domain.Item),
		orders:      make(map[int]*domain.Order),
		tables:      make(map[int]*domain.Table),
		workers:     make(map[int]*domain.Worker),
		categories:  make(map[int]*domain.Category),
		locks:       newKeyedLocks(),
		lockTimeout: lockTimeout,
	}
}

var _ interfaces.Store = (*Store)(nil)

func (s *Store) Items() interfaces.ItemRepository { return &itemRepo{s: s} }
func (s *Store) Orders() interfaces.OrderRepository { return &orderRepo{s: s} }
func (s *Store) Tables() interfaces.TableRepository { return &tableRepo{s: s} }
func (s *Store) Workers() interfaces.WorkerRepository { return &workerRepo{s: s} }
func (s *Store) Categories() interfaces.CategoryRepository { return &categoryRepo{s: s} }
func (s *Store) Reports() interfaces.ReportRepository { return &reportRepo{s: s} }

// WithinTx runs fn in a transaction. Locks taken through the tx are released
// after commit or rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	t := newTx(s)
	defer t.releaseLocks()

	if err := fn(ctx, t); err != nil {
		return err
	}
	return t.commit()
}

type tx struct {
	s    *Store
	held map[string]struct{}

	items        map[int]*domain.Item
	removedItems map[int]struct{}
	orders       map[int]*domain.Order
	tables       map[int]*domain.Table
	workers      map[int]*domain.Worker
	categories   map[int]*domain.Category
}

func newTx(s *Store) *tx {
	return &tx{
		s:            s,
		held:         make(map[string]struct{}),
		items:        make(map[int]*domain.Item),
		removedItems: make(map[int]struct{}),
		orders:       make(map[int]*domain.Order),
		tables:       make(map[int]*domain.Table),
		workers:      make(map[int]*domain.Worker),
		categories:   make(map[int]*domain.Category),
	}
}

func (t *tx) Items() interfaces.ItemRepository { return &itemRepo{s: t.s, tx: t} }
func (t *tx) Orders() interfaces.OrderRepository { return &orderRepo{s: t.s, tx: t} }
func (t *tx) Tables() interfaces.TableRepository { return &tableRepo{s: t.s, tx: t} }
func (t *tx) Workers() interfaces.WorkerRepository { return &workerRepo{s: t.s, tx: t} }
func (t *tx) Categories() interfaces.CategoryRepository { return &categoryRepo{s: t.s, tx: t} }

func (t *tx) lock(ctx context.Context, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	if err := t.s.locks.acquire(ctx, key, t.s.lockTimeout); err != nil {
		return err
	}
	t.held[key] = struct{}{}
	return nil
}

func (t *tx) releaseLocks() {
	for key := range t.held {
		t.s.locks.release(key)
	}
	t.held = nil
}

func (t *tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Constraints against committed state
	for id := range t.removedItems {
		if s.itemReferencedLocked(id, t.orders) {
			return fmt.Errorf("%w: item %d is on an order", domain.ErrReferentialConflict, id)
		}
	}
	for _, w := range t.workers {
		if other := s.workerByUsernameLocked(w.Username); other != nil && other.ID != w.ID {
			return fmt.Errorf("%w: username %q", domain.ErrDuplicate, w.Username)
		}
	}
	for _, c := range t.categories {
		if other := s.categoryByNameLocked(c.Name); other != nil && other.ID != c.ID {
			return fmt.Errorf("%w: category %q", domain.ErrDuplicate, c.Name)
		}
	}

	// 2. Apply
	for id, i := range t.items {
		s.items[id] = i
	}
	for id := range t.removedItems {
		delete(s.items, id)
	}
	for id, o := range t.orders {
		s.orders[id] = o
	}
	for id, tb := range t.tables {
		s.tables[id] = tb
	}
	for id, w := range t.workers {
		s.workers[id] = w
	}
	for id, c := range t.categories {
		s.categories[id] = c
	}
	return nil
}

// itemReferencedLocked checks committed orders, with staged orders taking precedence.
func (s *Store) itemReferencedLocked(itemID int, staged map[int]*domain.Order) bool {
	for id, o := range s.orders {
		if st, ok := staged[id]; ok {
			o = st
		}
		if o.Line(itemID) != nil {
			return true
		}
	}
	for id, o := range staged {
		if _, ok := s.orders[id]; !ok && o.Line(itemID) != nil {
			return true
		}
	}
	return false
}

func (s *Store) workerByUsernameLocked(username string) *domain.Worker {
	for _, w := range s.workers {
		if strings.EqualFold(w.Username, username) {
			return w
		}
	}
	return nil
}

func (s *Store) categoryByNameLocked(name string) *domain.Category {
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

func nextID(seq *atomic.Int64) int {
	return int(seq.Add(1))
}

func cloneItem(i *domain.Item) *domain.Item {
	c := *i
	return &c
}

func cloneTable(t *domain.Table) *domain.Table {
	c := *t
	return &c
}

func cloneWorker(w *domain.Worker) *domain.Worker {
	c := *w
	return &c
}

func cloneCategory(cat *domain.Category) *domain.Category {
	c := *cat
	return &c
}
