package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

const orderColumns = `id, worker_id, table_id, total_amount, status, payment_method,
	is_paid, paid_at, notes, created_at, updated_at`

type orderRepo struct {
	q querier
}

var _ interfaces.OrderRepository = (*orderRepo)(nil)

func scanOrder(row Row) (*domain.Order, error) {
	var (
		o      domain.Order
		method *string
	)
	err := row.Scan(&o.ID, &o.WorkerID, &o.TableID, &o.TotalAmount, &o.Status, &method,
		&o.IsPaid, &o.PaidAt, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if method != nil {
		o.PaymentMethod = domain.PaymentMethod(*method)
	}
	return &o, nil
}

func (r *orderRepo) Get(ctx context.Context, id int) (*domain.Order, error) {
	return r.get(ctx, id, "")
}

// Lock holds the order row only; lines are written exclusively under it
func (r *orderRepo) Lock(ctx context.Context, id int) (*domain.Order, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *orderRepo) get(ctx context.Context, id int, suffix string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1` + suffix
	order, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("order %d", id))
	}
	if err := r.loadLines(ctx, map[int]*domain.Order{order.ID: order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Unpaid {
		conds = append(conds, "NOT is_paid")
	}
	if filter.WorkerID != 0 {
		args = append(args, filter.WorkerID)
		conds = append(conds, fmt.Sprintf("worker_id = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list orders")
	}
	defer rows.Close()

	var orders []*domain.Order
	byID := make(map[int]*domain.Order)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, mapError(err, "scan order")
		}
		orders = append(orders, order)
		byID[order.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list orders")
	}
	rows.Close()

	if err := r.loadLines(ctx, byID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) loadLines(ctx context.Context, orders map[int]*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}

	query := `
		SELECT id, order_id, item_id, quantity, unit_price, total
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return mapError(err, "load order lines")
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Quantity, &l.UnitPrice, &l.Total); err != nil {
			return mapError(err, "scan order line")
		}
		o := orders[l.OrderID]
		o.Lines = append(o.Lines, l)
	}
	return mapError(rows.Err(), "load order lines")
}

func (r *orderRepo) Upsert(ctx context.Context, order *domain.Order) error {
	var method *string
	if order.PaymentMethod != "" {
		m := string(order.PaymentMethod)
		method = &m
	}

	// 1. Order row
	if order.ID == 0 {
		query := `
			INSERT INTO orders (worker_id, table_id, total_amount, status, payment_method,
			                    is_paid, paid_at, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`
		err := r.q.QueryRow(ctx, query,
			order.WorkerID, order.TableID, order.TotalAmount, order.Status, method,
			order.IsPaid, order.PaidAt, order.Notes, order.CreatedAt, order.UpdatedAt,
		).Scan(&order.ID)
		if err != nil {
			return mapError(err, "insert order")
		}
	} else {
		query := `
			UPDATE orders
			SET worker_id = $2, table_id = $3, total_amount = $4, status = $5, payment_method = $6,
			    is_paid = $7, paid_at = $8, notes = $9, updated_at = $10
			WHERE id = $1
		`
		tag, err := r.q.Exec(ctx, query,
			order.ID, order.WorkerID, order.TableID, order.TotalAmount, order.Status, method,
			order.IsPaid, order.PaidAt, order.Notes, order.UpdatedAt,
		)
		if err != nil {
			return mapError(err, fmt.Sprintf("order %d", order.ID))
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: order %d", domain.ErrNotFound, order.ID)
		}
	}

	// 2. Lines; an order holds at most one line per item
	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = order.ID
		query := `
			INSERT INTO order_lines (order_id, item_id, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (order_id, item_id)
			DO UPDATE SET quantity = EXCLUDED.quantity, unit_price = EXCLUDED.unit_price, total = EXCLUDED.total
			RETURNING id
		`
		err := r.q.QueryRow(ctx, query,
			order.ID, line.ItemID, line.Quantity, line.UnitPrice, line.Total,
		).Scan(&line.ID)
		if err != nil {
			return mapError(err, fmt.Sprintf("order %d line for item %d", order.ID, line.ItemID))
		}
	}
	return nil
}

func (r *orderRepo) ExistsForItem(ctx context.Context, itemID int) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM order_lines WHERE item_id = $1)`, itemID,
	).Scan(&exists)
	if err != nil {
		return false, mapError(err, fmt.Sprintf("order lines for item %d", itemID))
	}
	return exists, nil
}
