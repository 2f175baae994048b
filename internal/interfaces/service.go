package interfaces

import (
	"context"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/shopspring/decimal"
)

// Service commands
type CreateOrderCommand struct {
	WorkerID int
	TableID  *int
}

type AddLineCommand struct {
	OrderID  int
	ItemID   int
	Quantity int
	// AllowPartialFulfillment accepts fewer units than requested when stock is short
	AllowPartialFulfillment bool
}

type AddLineResult struct {
	Order     *domain.Order
	Line      domain.OrderLine
	Requested int
	Granted   int
}

type ChangeStatusCommand struct {
	OrderID int
	Status  domain.Status
	// Refund clears the payment of a paid order being cancelled
	Refund bool
}

type SettleCommand struct {
	OrderID      int
	Method       domain.PaymentMethod
	Tendered     decimal.Decimal
	ForcePartial bool
}

type SettlementKind string

const (
	SettlementExact    SettlementKind = "exact"
	SettlementOverpaid SettlementKind = "overpaid"
	SettlementPartial  SettlementKind = "partial"
)

type Settlement struct {
	Order     *domain.Order
	Kind      SettlementKind
	Change    decimal.Decimal
	Shortfall decimal.Decimal
}

type SetStatusOptions struct {
	ConfirmStockReset bool
	Replenish         int
}

type AddItemCommand struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Status      domain.ItemStatus
	CategoryID  int
}

// UpdateItemCommand changes only the non-nil fields
type UpdateItemCommand struct {
	ID          int
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	CategoryID  *int
}

type AddWorkerCommand struct {
	Name     string
	Username string
	Role     domain.WorkerRole
}

type UpdateWorkerCommand struct {
	ID   int
	Name *string
	Role *domain.WorkerRole
}

// Service interfaces (Business Logic)
type OrderService interface {
	Create(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	AddLine(ctx context.Context, cmd AddLineCommand) (*AddLineResult, error)
	ChangeStatus(ctx context.Context, cmd ChangeStatusCommand) (*domain.Order, error)
	CancelWithReason(ctx context.Context, orderID int, reason string, refund bool) (*domain.Order, error)
	Get(ctx context.Context, id int) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
}

type PaymentService interface {
	Settle(ctx context.Context, cmd SettleCommand) (*Settlement, error)
}

type ReportService interface {
	Sales(ctx context.Context, w domain.Window) (*domain.SalesReport, error)
	Popularity(ctx context.Context, w domain.Window) (*domain.PopularityReport, error)
	WorkerPerformance(ctx context.Context, w domain.Window) (*domain.WorkerPerformanceReport, error)
	DailyTrend(ctx context.Context, w domain.Window) (*domain.DailyTrendReport, error)
	InventoryStatus(ctx context.Context) (*domain.InventoryReport, error)
}

type CatalogService interface {
	AddCategory(ctx context.Context, name, description string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	AddItem(ctx context.Context, cmd AddItemCommand) (*domain.Item, error)
	UpdateItem(ctx context.Context, cmd UpdateItemCommand) (*domain.Item, error)
	DeleteItem(ctx context.Context, id int, discontinueIfReferenced bool) (*domain.Item, error)
	GetItem(ctx context.Context, id int) (*domain.Item, error)
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]*domain.Item, error)
	SetItemStatus(ctx context.Context, id int, status domain.ItemStatus, opts SetStatusOptions) (*domain.Item, error)
}

type StaffService interface {
	AddWorker(ctx context.Context, cmd AddWorkerCommand) (*domain.Worker, error)
	UpdateWorker(ctx context.Context, cmd UpdateWorkerCommand) (*domain.Worker, error)
	SetWorkerActive(ctx context.Context, id int, active bool) (*domain.Worker, error)
	ListWorkers(ctx context.Context, activeOnly bool) ([]*domain.Worker, error)
}

type TableService interface {
	AddTable(ctx context.Context, number string, capacity int) (*domain.Table, error)
	List(ctx context.Context, onlyFree bool) ([]*domain.Table, error)
}
