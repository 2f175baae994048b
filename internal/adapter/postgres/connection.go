package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectAttempts = 10
	connectDelay    = 2 * time.Second
	pingTimeout     = 5 * time.Second
)

type DB interface {
	querier
	Begin(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type Tx interface {
	querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type Row interface {
	Scan(dest ...any) error
}

type CommandTag interface {
	RowsAffected() int64
}

// querier is what repositories need; both the pool and a transaction satisfy it
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
}

// Connect opens the pool and waits for the database to answer a ping,
// retrying while it starts up. ctx bounds the whole wait.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	for attempt := 1; ; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				return &pgxDB{pgxQueries: pgxQueries{q: pool}, pool: pool}, nil
			}
			pool.Close()
		}

		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("database connect canceled: %w", ctx.Err())
		case <-time.After(connectDelay):
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", connectAttempts, err)
}

// pgxQuerier is the method set *pgxpool.Pool and pgx.Tx share
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type pgxQueries struct {
	q pgxQuerier
}

func (p pgxQueries) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return p.q.Query(ctx, sql, args...)
}

func (p pgxQueries) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return p.q.QueryRow(ctx, sql, args...)
}

func (p pgxQueries) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return p.q.Exec(ctx, sql, args...)
}

type pgxDB struct {
	pgxQueries
	pool *pgxpool.Pool
}

func (db *pgxDB) Begin(ctx context.Context) (Tx, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{pgxQueries: pgxQueries{q: tx}, tx: tx}, nil
}

func (db *pgxDB) Ping(ctx context.Context) error { return db.pool.Ping(ctx) }

func (db *pgxDB) Close() { db.pool.Close() }

type pgxTx struct {
	pgxQueries
	tx pgx.Tx
}

func (t *pgxTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

func (t *pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
