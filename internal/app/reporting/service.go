package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/shopspring/decimal"
)

const (
	topItemsLimit        = 10
	restockPriorityLimit = 5
)

// Service builds read-only reports over committed state. All orderings are
// total so equal inputs always render the same report.
type Service struct {
	repo     interfaces.ReportRepository
	location *time.Location
}

// NewService groups daily figures by calendar day in loc (UTC when nil)
func NewService(repo interfaces.ReportRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, location: loc}
}

var _ interfaces.ReportService = (*Service)(nil)

func (s *Service) Sales(ctx context.Context, w domain.Window) (*domain.SalesReport, error) {
	byStatus, err := s.repo.SalesByStatus(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("sales by status: %w", err)
	}
	byMethod, err := s.repo.SalesByPaymentMethod(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("sales by payment method: %w", err)
	}
	paidCancelled, err := s.repo.PaidCancelledCount(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("paid cancelled count: %w", err)
	}

	report := &domain.SalesReport{
		TotalSales:        decimal.Zero,
		AverageOrderValue: decimal.Zero,
		Payments:          make([]domain.PaymentShare, 0, len(byMethod)),
		PaidCancelled:     paidCancelled,
	}

	// 1. Every status is listed, in lifecycle order
	found := make(map[domain.Status]domain.StatusSales, len(byStatus))
	for _, row := range byStatus {
		found[row.Status] = row
	}
	for _, status := range domain.Statuses {
		row, ok := found[status]
		if !ok {
			row = domain.StatusSales{Status: status, Total: decimal.Zero}
		}
		row.Total = domain.Money(row.Total)
		report.ByStatus = append(report.ByStatus, row)
		report.TotalSales = report.TotalSales.Add(row.Total)
		report.TotalOrders += row.Count
		if !status.IsTerminal() {
			report.OpenOrders += row.Count
		}
	}

	// 2. Average over completed orders only
	if completed := found[domain.StatusCompleted]; completed.Count > 0 {
		report.AverageOrderValue = domain.Money(completed.Total.Div(decimal.NewFromInt(int64(completed.Count))))
	}

	// 3. Payment breakdown as a share of the window total
	for _, row := range byMethod {
		report.Payments = append(report.Payments, domain.PaymentShare{
			Method:  row.Method,
			Count:   row.Count,
			Total:   domain.Money(row.Total),
			Percent: domain.Percent(row.Total, report.TotalSales),
		})
	}
	sort.Slice(report.Payments, func(i, j int) bool {
		a, b := report.Payments[i], report.Payments[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		return a.Method < b.Method
	})

	return report, nil
}

func (s *Service) Popularity(ctx context.Context, w domain.Window) (*domain.PopularityReport, error) {
	items, err := s.repo.ItemSales(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("item sales: %w", err)
	}
	categories, err := s.repo.CategorySales(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("category sales: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if c := a.Sales.Cmp(b.Sales); c != 0 {
			return c > 0
		}
		return a.ItemID < b.ItemID
	})
	if len(items) > topItemsLimit {
		items = items[:topItemsLimit]
	}

	report := &domain.PopularityReport{
		TopItems:   make([]domain.RankedItem, 0, len(items)),
		Categories: categories,
	}
	for i, it := range items {
		it.Sales = domain.Money(it.Sales)
		report.TopItems = append(report.TopItems, domain.RankedItem{Rank: i + 1, ItemSales: it})
	}

	for i := range report.Categories {
		report.Categories[i].Sales = domain.Money(report.Categories[i].Sales)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		a, b := report.Categories[i], report.Categories[j]
		if c := a.Sales.Cmp(b.Sales); c != 0 {
			return c > 0
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.CategoryID < b.CategoryID
	})

	return report, nil
}

func (s *Service) WorkerPerformance(ctx context.Context, w domain.Window) (*domain.WorkerPerformanceReport, error) {
	rows, err := s.repo.WorkerSales(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("worker sales: %w", err)
	}

	report := &domain.WorkerPerformanceReport{Workers: make([]domain.WorkerPerformance, 0, len(rows))}
	for _, row := range rows {
		row.Sales = domain.Money(row.Sales)
		perf := domain.WorkerPerformance{WorkerSales: row, MeanOrderValue: decimal.Zero}
		if row.Orders > 0 {
			perf.MeanOrderValue = domain.Money(row.Sales.Div(decimal.NewFromInt(int64(row.Orders))))
		}
		report.Workers = append(report.Workers, perf)
	}

	sort.Slice(report.Workers, func(i, j int) bool {
		a, b := report.Workers[i], report.Workers[j]
		if c := a.Sales.Cmp(b.Sales); c != 0 {
			return c > 0
		}
		return a.WorkerID < b.WorkerID
	})
	if len(report.Workers) > 0 {
		best := report.Workers[0]
		report.Best = &best
	}

	return report, nil
}

func (s *Service) DailyTrend(ctx context.Context, w domain.Window) (*domain.DailyTrendReport, error) {
	days, err := s.repo.DailySales(ctx, w, s.location)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })

	report := &domain.DailyTrendReport{
		Days:       days,
		TotalSales: decimal.Zero,
		MeanDaily:  decimal.Zero,
	}
	if len(days) == 0 {
		report.Days = []domain.DailySales{}
		return report, nil
	}

	// Ascending order means strict comparisons keep the earliest day on ties
	best, worst := 0, 0
	for i := range days {
		days[i].Sales = domain.Money(days[i].Sales)
		report.TotalSales = report.TotalSales.Add(days[i].Sales)
		if days[i].Sales.GreaterThan(days[best].Sales) {
			best = i
		}
		if days[i].Sales.LessThan(days[worst].Sales) {
			worst = i
		}
	}

	bestDay, worstDay := days[best], days[worst]
	report.Best = &bestDay
	report.Worst = &worstDay
	report.MeanDaily = domain.Money(report.TotalSales.Div(decimal.NewFromInt(int64(len(days)))))
	return report, nil
}

func (s *Service) InventoryStatus(ctx context.Context) (*domain.InventoryReport, error) {
	byStatus, err := s.repo.InventoryByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory by status: %w", err)
	}
	byCategory, err := s.repo.InventoryByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory by category: %w", err)
	}
	outOfStock, err := s.repo.OutOfStockItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("out of stock items: %w", err)
	}
	demand, err := s.repo.ItemDemand(ctx, domain.ItemOutOfStock)
	if err != nil {
		return nil, fmt.Errorf("item demand: %w", err)
	}
	anomalies, err := s.repo.ZeroStockAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("zero stock available: %w", err)
	}

	report := &domain.InventoryReport{
		ByCategory:         byCategory,
		OutOfStock:         summarize(outOfStock),
		RestockPriority:    demand,
		ZeroStockAvailable: summarize(anomalies),
	}

	counts := make(map[domain.ItemStatus]int, len(byStatus))
	for _, row := range byStatus {
		counts[row.Status] = row.Count
	}
	for _, status := range domain.ItemStatuses {
		report.ByStatus = append(report.ByStatus, domain.ItemStatusCount{Status: status, Count: counts[status]})
	}

	sort.Slice(report.ByCategory, func(i, j int) bool {
		a, b := report.ByCategory[i], report.ByCategory[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.CategoryID < b.CategoryID
	})

	sort.Slice(report.RestockPriority, func(i, j int) bool {
		a, b := report.RestockPriority[i], report.RestockPriority[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if a.Orders != b.Orders {
			return a.Orders > b.Orders
		}
		return a.ItemID < b.ItemID
	})
	if len(report.RestockPriority) > restockPriorityLimit {
		report.RestockPriority = report.RestockPriority[:restockPriorityLimit]
	}

	return report, nil
}

// summarize converts items to report rows ordered by name
func summarize(items []*domain.Item) []domain.ItemSummary {
	out := make([]domain.ItemSummary, 0, len(items))
	for _, i := range items {
		out = append(out, domain.SummarizeItem(i))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
