package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "order_lines_item_id_fkey"}, domain.ErrReferentialConflict},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "workers_username_key"}, domain.ErrDuplicate},
		{"check", &pgconn.PgError{Code: "23514"}, domain.ErrInvalidArgument},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, domain.ErrStorageUnavailable},
		{"deadline", context.DeadlineExceeded, domain.ErrStorageUnavailable},
		{"other", errors.New("connection reset"), domain.ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "item 7")
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), "item 7")
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, mapError(nil, "order 1"))
}

func TestWindowClause(t *testing.T) {
	from, to := day(1), day(3)

	clause, args := windowClause("o.created_at", domain.Window{}, 1)
	assert.Equal(t, "TRUE", clause)
	assert.Empty(t, args)

	clause, args = windowClause("o.created_at", domain.Window{From: &from, To: &to}, 2)
	assert.Equal(t, "o.created_at >= $2 AND o.created_at < $3", clause)
	assert.Equal(t, []any{from, to}, args)
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}
