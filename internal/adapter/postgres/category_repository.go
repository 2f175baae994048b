package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

type categoryRepo struct {
	q querier
}

var _ interfaces.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) Get(ctx context.Context, id int) (*domain.Category, error) {
	var c domain.Category
	err := r.q.QueryRow(ctx, `SELECT id, name, description FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("category %d", id))
	}
	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, mapError(err, "list categories")
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, mapError(err, "scan category")
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list categories")
	}
	return categories, nil
}

func (r *categoryRepo) Upsert(ctx context.Context, category *domain.Category) error {
	if category.ID == 0 {
		err := r.q.QueryRow(ctx,
			`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
			category.Name, category.Description,
		).Scan(&category.ID)
		return mapError(err, fmt.Sprintf("category %q", category.Name))
	}

	tag, err := r.q.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		category.ID, category.Name, category.Description)
	if err != nil {
		return mapError(err, fmt.Sprintf("category %q", category.Name))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %d", domain.ErrNotFound, category.ID)
	}
	return nil
}
