package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

// Store is the PostgreSQL persistence collaborator. Row locks are taken with
// SELECT ... FOR UPDATE; every transaction runs under txTimeout so a lock wait
// that outlives it surfaces as domain.ErrStorageUnavailable.
type Store struct {
	db        DB
	txTimeout time.Duration
}

func NewStore(db DB, txTimeout time.Duration) *Store {
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}
	return &Store{db: db, txTimeout: txTimeout}
}

var _ interfaces.Store = (*Store)(nil)

func (s *Store) Items() interfaces.ItemRepository { return &itemRepo{q: s.db} }
func (s *Store) Orders() interfaces.OrderRepository { return &orderRepo{q: s.db} }
func (s *Store) Tables() interfaces.TableRepository { return &tableRepo{q: s.db} }
func (s *Store) Workers() interfaces.WorkerRepository { return &workerRepo{q: s.db} }
func (s *Store) Categories() interfaces.CategoryRepository { return &categoryRepo{q: s.db} }
func (s *Store) Reports() interfaces.ReportRepository { return &reportRepo{q: s.db} }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	dbTx, err := s.db.Begin(ctx)
	if err != nil {
		return mapError(err, "begin transaction")
	}
	// Rollback after a successful commit is a no-op
	defer dbTx.Rollback(context.WithoutCancel(ctx))

	if err := fn(ctx, &txRepos{q: dbTx}); err != nil {
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}

type txRepos struct {
	q querier
}

func (t *txRepos) Items() interfaces.ItemRepository { return &itemRepo{q: t.q} }
func (t *txRepos) Orders() interfaces.OrderRepository { return &orderRepo{q: t.q} }
func (t *txRepos) Tables() interfaces.TableRepository { return &tableRepo{q: t.q} }
func (t *txRepos) Workers() interfaces.WorkerRepository { return &workerRepo{q: t.q} }
func (t *txRepos) Categories() interfaces.CategoryRepository { return &categoryRepo{q: t.q} }

// Close releases the connection pool
func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
