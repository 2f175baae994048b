package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

const workerColumns = `id, name, username, role, is_active, created_at`

type workerRepo struct {
	q querier
}

var _ interfaces.WorkerRepository = (*workerRepo)(nil)

func scanWorker(row Row) (*domain.Worker, error) {
	var w domain.Worker
	if err := row.Scan(&w.ID, &w.Name, &w.Username, &w.Role, &w.IsActive, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workerRepo) Get(ctx context.Context, id int) (*domain.Worker, error) {
	w, err := scanWorker(r.q.QueryRow(ctx, `SELECT `+workerColumns+` FROM workers WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("worker %d", id))
	}
	return w, nil
}

func (r *workerRepo) GetByUsername(ctx context.Context, username string) (*domain.Worker, error) {
	w, err := scanWorker(r.q.QueryRow(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE lower(username) = lower($1)`, username))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("worker %q", username))
	}
	return w, nil
}

func (r *workerRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Worker, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+workerColumns+`
		FROM workers
		WHERE is_active OR NOT $1
		ORDER BY name, id
	`, activeOnly)
	if err != nil {
		return nil, mapError(err, "list workers")
	}
	defer rows.Close()

	var workers []*domain.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, mapError(err, "scan worker")
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list workers")
	}
	return workers, nil
}

func (r *workerRepo) Upsert(ctx context.Context, worker *domain.Worker) error {
	if worker.ID == 0 {
		err := r.q.QueryRow(ctx, `
			INSERT INTO workers (name, username, role, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, worker.Name, worker.Username, worker.Role, worker.IsActive, worker.CreatedAt).Scan(&worker.ID)
		return mapError(err, fmt.Sprintf("worker %q", worker.Username))
	}

	tag, err := r.q.Exec(ctx, `
		UPDATE workers SET name = $2, username = $3, role = $4, is_active = $5 WHERE id = $1
	`, worker.ID, worker.Name, worker.Username, worker.Role, worker.IsActive)
	if err != nil {
		return mapError(err, fmt.Sprintf("worker %q", worker.Username))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: worker %d", domain.ErrNotFound, worker.ID)
	}
	return nil
}

func (r *workerRepo) CountActiveSupervisors(ctx context.Context, excludeID int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(*)
		FROM workers
		WHERE is_active AND role IN ('admin', 'manager') AND id <> $1
	`, excludeID).Scan(&n)
	if err != nil {
		return 0, mapError(err, "count supervisors")
	}
	return n, nil
}
