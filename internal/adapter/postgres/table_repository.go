package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

type tableRepo struct {
	q querier
}

var _ interfaces.TableRepository = (*tableRepo)(nil)

func scanTable(row Row) (*domain.Table, error) {
	var t domain.Table
	if err := row.Scan(&t.ID, &t.Number, &t.Capacity, &t.IsOccupied); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tableRepo) Get(ctx context.Context, id int) (*domain.Table, error) {
	t, err := scanTable(r.q.QueryRow(ctx,
		`SELECT id, number, capacity, is_occupied FROM dining_tables WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("table %d", id))
	}
	return t, nil
}

func (r *tableRepo) Lock(ctx context.Context, id int) (*domain.Table, error) {
	t, err := scanTable(r.q.QueryRow(ctx,
		`SELECT id, number, capacity, is_occupied FROM dining_tables WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("table %d", id))
	}
	return t, nil
}

func (r *tableRepo) List(ctx context.Context, onlyFree bool) ([]*domain.Table, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, number, capacity, is_occupied
		FROM dining_tables
		WHERE NOT ($1 AND is_occupied)
		ORDER BY id
	`, onlyFree)
	if err != nil {
		return nil, mapError(err, "list tables")
	}
	defer rows.Close()

	var tables []*domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, mapError(err, "scan table")
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list tables")
	}
	return tables, nil
}

func (r *tableRepo) Upsert(ctx context.Context, table *domain.Table) error {
	if table.ID == 0 {
		err := r.q.QueryRow(ctx, `
			INSERT INTO dining_tables (number, capacity, is_occupied)
			VALUES ($1, $2, $3)
			RETURNING id
		`, table.Number, table.Capacity, table.IsOccupied).Scan(&table.ID)
		return mapError(err, fmt.Sprintf("table %q", table.Number))
	}

	tag, err := r.q.Exec(ctx, `
		UPDATE dining_tables SET number = $2, capacity = $3, is_occupied = $4 WHERE id = $1
	`, table.ID, table.Number, table.Capacity, table.IsOccupied)
	if err != nil {
		return mapError(err, fmt.Sprintf("table %d", table.ID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: table %d", domain.ErrNotFound, table.ID)
	}
	return nil
}
