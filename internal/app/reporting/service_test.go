package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/memory"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var day1 = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

type ReportingSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *Service

	ann, bob          *domain.Worker
	food, drinks      *domain.Category
	soup, cake, juice *domain.Item
}

func TestReportingSuite(t *testing.T) {
	suite.Run(t, new(ReportingSuite))
}

func (s *ReportingSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore(time.Second)
	s.svc = NewService(s.store.Reports(), time.UTC)

	s.ann = s.worker("Ann", "ann")
	s.bob = s.worker("Bob", "bob")
	s.food = s.category("Food")
	s.drinks = s.category("Drinks")
	s.soup = s.item("Soup", "4.00", s.food)
	s.cake = s.item("Cake", "2.00", s.food)
	s.juice = s.item("Juice", "3.00", s.drinks)
}

func (s *ReportingSuite) worker(name, username string) *domain.Worker {
	w, err := domain.NewWorker(name, username, domain.RoleCashier)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Workers().Upsert(s.ctx, w))
	return w
}

func (s *ReportingSuite) category(name string) *domain.Category {
	c := &domain.Category{Name: name}
	s.Require().NoError(s.store.Categories().Upsert(s.ctx, c))
	return c
}

func (s *ReportingSuite) item(name, price string, c *domain.Category) *domain.Item {
	i, err := domain.NewItem(name, "", decimal.RequireFromString(price), 100, domain.ItemAvailable, c.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Items().Upsert(s.ctx, i))
	return i
}

type line struct {
	item *domain.Item
	qty  int
}

func (s *ReportingSuite) order(w *domain.Worker, at time.Time, status domain.Status, method domain.PaymentMethod, lines ...line) *domain.Order {
	o := domain.NewOrder(w.ID, nil, at)
	for _, l := range lines {
		_, err := o.AddLine(l.item.ID, l.qty, l.item.Price, at)
		s.Require().NoError(err)
	}
	if method != "" {
		s.Require().NoError(o.MarkPaid(method, at))
	}
	switch status {
	case domain.StatusCompleted:
		s.Require().NoError(o.Complete(at))
	case domain.StatusCancelled:
		s.Require().NoError(o.Cancel("", false, at))
	}
	s.Require().NoError(s.store.Orders().Upsert(s.ctx, o))
	return o
}

func (s *ReportingSuite) TestSales() {
	// 8.00 + 3.00 completed, 2.00 cancelled but kept paid, 2.00 open
	s.order(s.ann, day1, domain.StatusCompleted, domain.PaymentCash, line{s.soup, 2})
	s.order(s.ann, day1, domain.StatusCompleted, domain.PaymentCreditCard, line{s.juice, 1})
	s.order(s.bob, day1, domain.StatusCancelled, domain.PaymentCash, line{s.cake, 1})
	s.order(s.bob, day1, domain.StatusInProgress, "", line{s.cake, 1})
	// outside the window
	s.order(s.bob, day1.AddDate(0, 0, 5), domain.StatusCompleted, domain.PaymentCash, line{s.soup, 1})

	to := day1.AddDate(0, 0, 1)
	report, err := s.svc.Sales(s.ctx, domain.Window{To: &to})
	s.Require().NoError(err)

	s.True(report.TotalSales.Equal(decimal.RequireFromString("15")))
	s.Equal(4, report.TotalOrders)
	s.Equal(1, report.OpenOrders)
	s.Equal(1, report.PaidCancelled)
	s.True(report.AverageOrderValue.Equal(decimal.RequireFromString("5.5")))

	s.Require().Len(report.ByStatus, 4)
	s.Equal(domain.StatusPending, report.ByStatus[0].Status)
	s.Equal(0, report.ByStatus[0].Count)

	s.Require().Len(report.Payments, 2)
	s.Equal(domain.PaymentCash, report.Payments[0].Method)
	s.True(report.Payments[0].Total.Equal(decimal.RequireFromString("10")))
	s.True(report.Payments[0].Percent.Equal(decimal.RequireFromString("66.67")))
	s.Equal(domain.PaymentCreditCard, report.Payments[1].Method)
}

func (s *ReportingSuite) TestSalesEmptyWindow() {
	report, err := s.svc.Sales(s.ctx, domain.Window{})
	s.Require().NoError(err)
	s.True(report.TotalSales.IsZero())
	s.True(report.AverageOrderValue.IsZero())
	s.Empty(report.Payments)
}

func (s *ReportingSuite) TestPopularityTieBreakBySales() {
	// Cake and juice both sell 3 units; juice earns more
	s.order(s.ann, day1, domain.StatusInProgress, "", line{s.cake, 3}, line{s.soup, 1})
	s.order(s.ann, day1, domain.StatusInProgress, "", line{s.juice, 2})
	s.order(s.bob, day1, domain.StatusInProgress, "", line{s.juice, 1})
	s.order(s.bob, day1, domain.StatusCancelled, "", line{s.soup, 9})

	report, err := s.svc.Popularity(s.ctx, domain.Window{})
	s.Require().NoError(err)

	s.Require().Len(report.TopItems, 3)
	s.Equal(s.juice.ID, report.TopItems[0].ItemID)
	s.Equal(1, report.TopItems[0].Rank)
	s.Equal(2, report.TopItems[0].Orders)
	s.Equal(s.cake.ID, report.TopItems[1].ItemID)
	s.Equal(s.soup.ID, report.TopItems[2].ItemID)
	s.Equal(1, report.TopItems[2].Quantity)

	s.Require().Len(report.Categories, 2)
	s.Equal("Food", report.Categories[0].Name)
	s.True(report.Categories[0].Sales.Equal(decimal.RequireFromString("10")))
	s.Equal(2, report.Categories[0].Items)
	s.Equal("Drinks", report.Categories[1].Name)
	s.True(report.Categories[1].Sales.Equal(decimal.RequireFromString("9")))
}

func (s *ReportingSuite) TestWorkerPerformance() {
	s.order(s.ann, day1, domain.StatusCompleted, domain.PaymentCash, line{s.soup, 1})
	s.order(s.ann, day1, domain.StatusCancelled, "", line{s.cake, 1})
	s.order(s.bob, day1, domain.StatusCompleted, domain.PaymentCash, line{s.juice, 3})

	report, err := s.svc.WorkerPerformance(s.ctx, domain.Window{})
	s.Require().NoError(err)

	s.Require().Len(report.Workers, 2)
	s.Require().NotNil(report.Best)
	s.Equal(s.bob.ID, report.Best.WorkerID)
	s.Equal("Bob", report.Best.Name)

	ann := report.Workers[1]
	s.Equal(2, ann.Orders)
	s.Equal(1, ann.Completed)
	s.Equal(1, ann.Cancelled)
	s.True(ann.MeanOrderValue.Equal(decimal.RequireFromString("3")))
}

func (s *ReportingSuite) TestDailyTrend() {
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)
	s.order(s.ann, day1, domain.StatusCompleted, domain.PaymentCash, line{s.cake, 1})
	s.order(s.ann, day2, domain.StatusCompleted, domain.PaymentCash, line{s.soup, 2})
	s.order(s.ann, day2.Add(time.Hour), domain.StatusCancelled, "", line{s.cake, 1})
	s.order(s.ann, day3, domain.StatusInProgress, "", line{s.cake, 1})

	report, err := s.svc.DailyTrend(s.ctx, domain.Window{})
	s.Require().NoError(err)

	s.Require().Len(report.Days, 3)
	s.True(report.Days[0].Day.Before(report.Days[1].Day))
	s.Equal(2, report.Days[1].Orders)
	s.Equal(1, report.Days[1].Cancelled)

	s.Require().NotNil(report.Best)
	s.True(report.Best.Day.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
	s.Require().NotNil(report.Worst)
	s.True(report.Worst.Day.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
	s.True(report.TotalSales.Equal(decimal.RequireFromString("14")))
	s.True(report.MeanDaily.Equal(decimal.RequireFromString("4.67")))
}

func (s *ReportingSuite) TestDailyTrendUsesReportingZone() {
	almaty := time.FixedZone("ALMT", 5*60*60)
	svc := NewService(s.store.Reports(), almaty)

	// 21:00 UTC is already the next day at +05:00
	s.order(s.ann, time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC), domain.StatusInProgress, "", line{s.cake, 1})

	report, err := svc.DailyTrend(s.ctx, domain.Window{})
	s.Require().NoError(err)
	s.Require().Len(report.Days, 1)
	s.Equal(5, report.Days[0].Day.Day())
}

func (s *ReportingSuite) TestInventoryStatus() {
	s.order(s.ann, day1, domain.StatusCompleted, domain.PaymentCash, line{s.soup, 4})
	s.order(s.bob, day1, domain.StatusCompleted, domain.PaymentCash, line{s.cake, 4})
	s.order(s.bob, day1, domain.StatusCompleted, domain.PaymentCash, line{s.juice, 1})

	for _, it := range []*domain.Item{s.soup, s.cake} {
		got, err := s.store.Items().Get(s.ctx, it.ID)
		s.Require().NoError(err)
		s.Require().NoError(got.ChangeStatus(domain.ItemOutOfStock, true, 0))
		s.Require().NoError(s.store.Items().Upsert(s.ctx, got))
	}

	// Written around the ledger to simulate a legacy row
	broken := &domain.Item{Name: "Tea", Price: decimal.NewFromInt(1), Status: domain.ItemAvailable, CategoryID: s.drinks.ID}
	s.Require().NoError(s.store.Items().Upsert(s.ctx, broken))

	report, err := s.svc.InventoryStatus(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(report.ByStatus, 4)
	s.Equal(domain.ItemStatusCount{Status: domain.ItemAvailable, Count: 2}, report.ByStatus[0])
	s.Equal(domain.ItemStatusCount{Status: domain.ItemOutOfStock, Count: 2}, report.ByStatus[1])

	s.Require().Len(report.OutOfStock, 2)
	s.Equal("Cake", report.OutOfStock[0].Name)

	// Equal quantity and orders fall back to the lower ID
	s.Require().Len(report.RestockPriority, 2)
	s.Equal(s.soup.ID, report.RestockPriority[0].ItemID)
	s.Equal(4, report.RestockPriority[0].Quantity)

	s.Require().Len(report.ZeroStockAvailable, 1)
	s.Equal("Tea", report.ZeroStockAvailable[0].Name)

	s.Require().Len(report.ByCategory, 2)
	s.Equal("Drinks", report.ByCategory[0].Name)
	s.Equal(2, report.ByCategory[0].Available)
	s.Equal(2, report.ByCategory[1].OutOfStock)
}
