package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

const itemColumns = `id, name, description, price, stock, status, category_id, created_at, updated_at`

type itemRepo struct {
	q querier
}

var _ interfaces.ItemRepository = (*itemRepo)(nil)

func scanItem(row Row) (*domain.Item, error) {
	var i domain.Item
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.Price, &i.Stock, &i.Status,
		&i.CategoryID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *itemRepo) Get(ctx context.Context, id int) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("item %d", id))
	}
	return item, nil
}

func (r *itemRepo) Lock(ctx context.Context, id int) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	item, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("item %d", id))
	}
	return item, nil
}

func (r *itemRepo) List(ctx context.Context, filter domain.ItemFilter) ([]*domain.Item, error) {
	var (
		conds []string
		args  []any
	)
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.InStockOnly {
		conds = append(conds, "stock > 0")
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY name, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list items")
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, mapError(err, "scan item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list items")
	}
	return items, nil
}

func (r *itemRepo) Upsert(ctx context.Context, item *domain.Item) error {
	if item.ID == 0 {
		query := `
			INSERT INTO items (name, description, price, stock, status, category_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`
		err := r.q.QueryRow(ctx, query,
			item.Name, item.Description, item.Price, item.Stock, item.Status,
			item.CategoryID, item.CreatedAt, item.UpdatedAt,
		).Scan(&item.ID)
		return mapError(err, fmt.Sprintf("item %q", item.Name))
	}

	query := `
		UPDATE items
		SET name = $2, description = $3, price = $4, stock = $5, status = $6,
		    category_id = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.Price, item.Stock, item.Status,
		item.CategoryID, item.UpdatedAt,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("item %d", item.ID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %d", domain.ErrNotFound, item.ID)
	}
	return nil
}

// Remove relies on the order_lines foreign key to refuse referenced items
func (r *itemRepo) Remove(ctx context.Context, id int) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return mapError(err, fmt.Sprintf("item %d is on an order", id))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	return nil
}
