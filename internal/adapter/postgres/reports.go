package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

// reportRepo runs the report aggregates against committed state on the pool
type reportRepo struct {
	q querier
}

var _ interfaces.ReportRepository = (*reportRepo)(nil)

// windowClause renders w as a half-open range over col with placeholders
// numbered from first.
func windowClause(col string, w domain.Window, first int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if w.From != nil {
		args = append(args, *w.From)
		conds = append(conds, fmt.Sprintf("%s >= $%d", col, first+len(args)-1))
	}
	if w.To != nil {
		args = append(args, *w.To)
		conds = append(conds, fmt.Sprintf("%s < $%d", col, first+len(args)-1))
	}
	if len(conds) == 0 {
		return "TRUE", nil
	}
	return strings.Join(conds, " AND "), args
}

// collect runs query and scans every row with scan
func collect[T any](ctx context.Context, q querier, what, query string, args []any, scan func(Rows) (T, error)) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, what)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, mapError(err, what)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, what)
	}
	return out, nil
}

func (r *reportRepo) SalesByStatus(ctx context.Context, w domain.Window) ([]domain.StatusSales, error) {
	where, args := windowClause("created_at", w, 1)
	query := `
		SELECT status, count(*), COALESCE(sum(total_amount), 0)
		FROM orders
		WHERE ` + where + `
		GROUP BY status
	`
	return collect(ctx, r.q, "sales by status", query, args, func(rows Rows) (domain.StatusSales, error) {
		var s domain.StatusSales
		err := rows.Scan(&s.Status, &s.Count, &s.Total)
		return s, err
	})
}

func (r *reportRepo) SalesByPaymentMethod(ctx context.Context, w domain.Window) ([]domain.MethodSales, error) {
	where, args := windowClause("created_at", w, 1)
	query := `
		SELECT payment_method, count(*), COALESCE(sum(total_amount), 0)
		FROM orders
		WHERE is_paid AND payment_method IS NOT NULL AND ` + where + `
		GROUP BY payment_method
	`
	return collect(ctx, r.q, "sales by payment method", query, args, func(rows Rows) (domain.MethodSales, error) {
		var m domain.MethodSales
		err := rows.Scan(&m.Method, &m.Count, &m.Total)
		return m, err
	})
}

func (r *reportRepo) PaidCancelledCount(ctx context.Context, w domain.Window) (int, error) {
	where, args := windowClause("created_at", w, 1)
	query := `SELECT count(*) FROM orders WHERE is_paid AND status = 'cancelled' AND ` + where

	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err, "paid cancelled count")
	}
	return n, nil
}

func (r *reportRepo) ItemSales(ctx context.Context, w domain.Window) ([]domain.ItemSales, error) {
	where, args := windowClause("o.created_at", w, 1)
	query := `
		SELECT i.id, i.name, c.id, c.name,
		       sum(l.quantity), sum(l.total), count(DISTINCT o.id)
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		JOIN items i ON i.id = l.item_id
		JOIN categories c ON c.id = i.category_id
		WHERE o.status <> 'cancelled' AND ` + where + `
		GROUP BY i.id, i.name, c.id, c.name
	`
	return collect(ctx, r.q, "item sales", query, args, func(rows Rows) (domain.ItemSales, error) {
		var s domain.ItemSales
		err := rows.Scan(&s.ItemID, &s.Name, &s.CategoryID, &s.CategoryName, &s.Quantity, &s.Sales, &s.Orders)
		return s, err
	})
}

func (r *reportRepo) CategorySales(ctx context.Context, w domain.Window) ([]domain.CategorySales, error) {
	where, args := windowClause("o.created_at", w, 1)
	query := `
		SELECT c.id, c.name, sum(l.total), count(DISTINCT l.item_id)
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		JOIN items i ON i.id = l.item_id
		JOIN categories c ON c.id = i.category_id
		WHERE o.status <> 'cancelled' AND ` + where + `
		GROUP BY c.id, c.name
	`
	return collect(ctx, r.q, "category sales", query, args, func(rows Rows) (domain.CategorySales, error) {
		var s domain.CategorySales
		err := rows.Scan(&s.CategoryID, &s.Name, &s.Sales, &s.Items)
		return s, err
	})
}

func (r *reportRepo) WorkerSales(ctx context.Context, w domain.Window) ([]domain.WorkerSales, error) {
	where, args := windowClause("o.created_at", w, 1)
	query := `
		SELECT wk.id, wk.name, count(*),
		       count(*) FILTER (WHERE o.status = 'completed'),
		       count(*) FILTER (WHERE o.status = 'cancelled'),
		       COALESCE(sum(o.total_amount), 0)
		FROM orders o
		JOIN workers wk ON wk.id = o.worker_id
		WHERE ` + where + `
		GROUP BY wk.id, wk.name
	`
	return collect(ctx, r.q, "worker sales", query, args, func(rows Rows) (domain.WorkerSales, error) {
		var s domain.WorkerSales
		err := rows.Scan(&s.WorkerID, &s.Name, &s.Orders, &s.Completed, &s.Cancelled, &s.Sales)
		return s, err
	})
}

// DailySales buckets by calendar day in loc. loc must carry an IANA name the
// server knows.
func (r *reportRepo) DailySales(ctx context.Context, w domain.Window, loc *time.Location) ([]domain.DailySales, error) {
	if loc == nil {
		loc = time.UTC
	}
	where, args := windowClause("created_at", w, 2)
	query := `
		SELECT (created_at AT TIME ZONE $1)::date AS day,
		       COALESCE(sum(total_amount), 0), count(*),
		       count(*) FILTER (WHERE status = 'completed'),
		       count(*) FILTER (WHERE status = 'cancelled')
		FROM orders
		WHERE ` + where + `
		GROUP BY day
	`
	args = append([]any{loc.String()}, args...)
	return collect(ctx, r.q, "daily sales", query, args, func(rows Rows) (domain.DailySales, error) {
		var (
			d   domain.DailySales
			day time.Time
		)
		if err := rows.Scan(&day, &d.Sales, &d.Orders, &d.Completed, &d.Cancelled); err != nil {
			return d, err
		}
		d.Day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		return d, nil
	})
}

func (r *reportRepo) InventoryByStatus(ctx context.Context) ([]domain.ItemStatusCount, error) {
	query := `SELECT status, count(*) FROM items GROUP BY status`
	return collect(ctx, r.q, "inventory by status", query, nil, func(rows Rows) (domain.ItemStatusCount, error) {
		var c domain.ItemStatusCount
		err := rows.Scan(&c.Status, &c.Count)
		return c, err
	})
}

func (r *reportRepo) InventoryByCategory(ctx context.Context) ([]domain.CategoryInventory, error) {
	query := `
		SELECT c.id, c.name, count(*),
		       count(*) FILTER (WHERE i.status = 'available'),
		       count(*) FILTER (WHERE i.status = 'out_of_stock'),
		       count(*) FILTER (WHERE i.status = 'discontinued'),
		       count(*) FILTER (WHERE i.status = 'seasonal')
		FROM items i
		JOIN categories c ON c.id = i.category_id
		GROUP BY c.id, c.name
	`
	return collect(ctx, r.q, "inventory by category", query, nil, func(rows Rows) (domain.CategoryInventory, error) {
		var c domain.CategoryInventory
		err := rows.Scan(&c.CategoryID, &c.Name, &c.Total, &c.Available, &c.OutOfStock, &c.Discontinued, &c.Seasonal)
		return c, err
	})
}

func (r *reportRepo) OutOfStockItems(ctx context.Context) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = 'out_of_stock'`
	return collect(ctx, r.q, "out of stock items", query, nil, func(rows Rows) (*domain.Item, error) {
		return scanItem(rows)
	})
}

func (r *reportRepo) ZeroStockAvailable(ctx context.Context) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = 'available' AND stock = 0`
	return collect(ctx, r.q, "zero stock available", query, nil, func(rows Rows) (*domain.Item, error) {
		return scanItem(rows)
	})
}

func (r *reportRepo) ItemDemand(ctx context.Context, status domain.ItemStatus) ([]domain.ItemDemand, error) {
	query := `
		SELECT i.id, i.name, COALESCE(sum(l.quantity), 0), count(l.id)
		FROM items i
		LEFT JOIN order_lines l ON l.item_id = i.id
		WHERE i.status = $1
		GROUP BY i.id, i.name
	`
	return collect(ctx, r.q, "item demand", query, []any{status}, func(rows Rows) (domain.ItemDemand, error) {
		var d domain.ItemDemand
		err := rows.Scan(&d.ItemID, &d.Name, &d.Quantity, &d.Orders)
		return d, err
	})
}
