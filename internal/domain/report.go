package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Aggregate rows produced by the report repository.

type StatusSales struct {
	Status Status          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

type MethodSales struct {
	Method PaymentMethod   `json:"method"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

type ItemSales struct {
	ItemID       int             `json:"item_id"`
	Name         string          `json:"name"`
	CategoryID   int             `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Quantity     int             `json:"quantity"`
	Sales        decimal.Decimal `json:"sales"`
	Orders       int             `json:"orders"`
}

type CategorySales struct {
	CategoryID int             `json:"category_id"`
	Name       string          `json:"name"`
	Sales      decimal.Decimal `json:"sales"`
	Items      int             `json:"items"`
}

type WorkerSales struct {
	WorkerID  int             `json:"worker_id"`
	Name      string          `json:"name"`
	Orders    int             `json:"orders"`
	Completed int             `json:"completed"`
	Cancelled int             `json:"cancelled"`
	Sales     decimal.Decimal `json:"sales"`
}

// DailySales is one calendar day in the reporting time zone
type DailySales struct {
	Day       time.Time       `json:"day"`
	Sales     decimal.Decimal `json:"sales"`
	Orders    int             `json:"orders"`
	Completed int             `json:"completed"`
	Cancelled int             `json:"cancelled"`
}

type ItemStatusCount struct {
	Status ItemStatus `json:"status"`
	Count  int        `json:"count"`
}

type CategoryInventory struct {
	CategoryID   int    `json:"category_id"`
	Name         string `json:"name"`
	Total        int    `json:"total"`
	Available    int    `json:"available"`
	OutOfStock   int    `json:"out_of_stock"`
	Discontinued int    `json:"discontinued"`
	Seasonal     int    `json:"seasonal"`
}

// ItemDemand is the historical ordered quantity of an item over all orders
type ItemDemand struct {
	ItemID   int    `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Orders   int    `json:"orders"`
}

// ItemSummary is the item shape carried in reports
type ItemSummary struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	CategoryID int             `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	Status     ItemStatus      `json:"status"`
}

func SummarizeItem(i *Item) ItemSummary {
	return ItemSummary{
		ID:         i.ID,
		Name:       i.Name,
		CategoryID: i.CategoryID,
		Price:      i.Price,
		Stock:      i.Stock,
		Status:     i.Status,
	}
}

// Reports returned to the driver.

type PaymentShare struct {
	Method  PaymentMethod   `json:"method"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Percent decimal.Decimal `json:"percent"`
}

type SalesReport struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalOrders       int             `json:"total_orders"`
	ByStatus          []StatusSales   `json:"by_status"`
	OpenOrders        int             `json:"open_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	Payments          []PaymentShare  `json:"payments"`
	PaidCancelled     int             `json:"paid_cancelled"`
}

type RankedItem struct {
	Rank int `json:"rank"`
	ItemSales
}

type PopularityReport struct {
	TopItems   []RankedItem    `json:"top_items"`
	Categories []CategorySales `json:"categories"`
}

type WorkerPerformance struct {
	WorkerSales
	MeanOrderValue decimal.Decimal `json:"mean_order_value"`
}

type WorkerPerformanceReport struct {
	Workers []WorkerPerformance `json:"workers"`
	Best    *WorkerPerformance  `json:"best,omitempty"`
}

type DailyTrendReport struct {
	Days       []DailySales    `json:"days"`
	TotalSales decimal.Decimal `json:"total_sales"`
	MeanDaily  decimal.Decimal `json:"mean_daily"`
	Best       *DailySales     `json:"best,omitempty"`
	Worst      *DailySales     `json:"worst,omitempty"`
}

type InventoryReport struct {
	ByStatus           []ItemStatusCount   `json:"by_status"`
	ByCategory         []CategoryInventory `json:"by_category"`
	OutOfStock         []ItemSummary       `json:"out_of_stock"`
	RestockPriority    []ItemDemand        `json:"restock_priority"`
	ZeroStockAvailable []ItemSummary       `json:"zero_stock_available"`
}
