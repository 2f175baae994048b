package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
)

// Repositories (Adapter/Postgres, Adapter/Memory)
//
// Get and List read committed state. Lock reads the row and holds it until
// the surrounding transaction ends; outside WithinTx it behaves like Get.
// Upsert assigns the identity on first insert.

type ItemRepository interface {
	Get(ctx context.Context, id int) (*domain.Item, error)
	Lock(ctx context.Context, id int) (*domain.Item, error)
	List(ctx context.Context, filter domain.ItemFilter) ([]*domain.Item, error)
	Upsert(ctx context.Context, item *domain.Item) error
	// Remove fails with domain.ErrReferentialConflict while any order line references the item.
	Remove(ctx context.Context, id int) error
}

type OrderRepository interface {
	Get(ctx context.Context, id int) (*domain.Order, error)
	Lock(ctx context.Context, id int) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	// Upsert stores the order together with its lines.
	Upsert(ctx context.Context, order *domain.Order) error
	ExistsForItem(ctx context.Context, itemID int) (bool, error)
}

type TableRepository interface {
	Get(ctx context.Context, id int) (*domain.Table, error)
	Lock(ctx context.Context, id int) (*domain.Table, error)
	List(ctx context.Context, onlyFree bool) ([]*domain.Table, error)
	Upsert(ctx context.Context, table *domain.Table) error
}

type WorkerRepository interface {
	Get(ctx context.Context, id int) (*domain.Worker, error)
	GetByUsername(ctx context.Context, username string) (*domain.Worker, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Worker, error)
	Upsert(ctx context.Context, worker *domain.Worker) error
	CountActiveSupervisors(ctx context.Context, excludeID int) (int, error)
}

type CategoryRepository interface {
	Get(ctx context.Context, id int) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Upsert(ctx context.Context, category *domain.Category) error
}

// ReportRepository runs the aggregate queries behind the reports. Rows come
// back in no particular order; callers sort them.
type ReportRepository interface {
	SalesByStatus(ctx context.Context, w domain.Window) ([]domain.StatusSales, error)
	SalesByPaymentMethod(ctx context.Context, w domain.Window) ([]domain.MethodSales, error)
	PaidCancelledCount(ctx context.Context, w domain.Window) (int, error)
	ItemSales(ctx context.Context, w domain.Window) ([]domain.ItemSales, error)
	CategorySales(ctx context.Context, w domain.Window) ([]domain.CategorySales, error)
	WorkerSales(ctx context.Context, w domain.Window) ([]domain.WorkerSales, error)
	DailySales(ctx context.Context, w domain.Window, loc *time.Location) ([]domain.DailySales, error)

	InventoryByStatus(ctx context.Context) ([]domain.ItemStatusCount, error)
	InventoryByCategory(ctx context.Context) ([]domain.CategoryInventory, error)
	OutOfStockItems(ctx context.Context) ([]*domain.Item, error)
	// ItemDemand sums historical ordered quantity for every item in status,
	// including items that were never ordered.
	ItemDemand(ctx context.Context, status domain.ItemStatus) ([]domain.ItemDemand, error)
	ZeroStockAvailable(ctx context.Context) ([]*domain.Item, error)
}

// Repositories groups the entity repositories bound to one connection or transaction
type Repositories interface {
	Items() ItemRepository
	Orders() OrderRepository
	Tables() TableRepository
	Workers() WorkerRepository
	Categories() CategoryRepository
}

// Tx is the set of repositories inside one transaction
type Tx interface {
	Repositories
}

// Store is the persistence collaborator. WithinTx commits when fn returns nil
// and rolls back otherwise. Waits on locks are bounded and surface as
// domain.ErrStorageUnavailable.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Reports() ReportRepository
}
