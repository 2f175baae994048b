package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeLockNotAvailable    = "55P03"
)

// mapError translates driver failures into domain failure kinds. what names
// the entity for not-found messages.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, what, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s (%s)", domain.ErrReferentialConflict, what, pgErr.ConstraintName)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", domain.ErrDuplicate, what, pgErr.ConstraintName)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s (%s)", domain.ErrInvalidArgument, what, pgErr.ConstraintName)
		case codeLockNotAvailable:
			return fmt.Errorf("%w: %s: lock wait expired", domain.ErrStorageUnavailable, what)
		}
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, what, err)
}
