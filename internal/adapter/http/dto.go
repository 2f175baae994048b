package http

import (
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/shopspring/decimal"
)

// Requests

type CreateOrderRequest struct {
	WorkerID int  `json:"worker_id"`
	TableID  *int `json:"table_id,omitempty"`
}

type AddLineRequest struct {
	ItemID       int  `json:"item_id"`
	Quantity     int  `json:"quantity"`
	AllowPartial bool `json:"allow_partial"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
	Refund bool   `json:"refund"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
	Refund bool   `json:"refund"`
}

type SettleRequest struct {
	Method       string          `json:"payment_method"`
	Tendered     decimal.Decimal `json:"tendered"`
	ForcePartial bool            `json:"force_partial"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
	CategoryID  int             `json:"category_id"`
}

type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	CategoryID  *int             `json:"category_id,omitempty"`
}

type ItemStatusRequest struct {
	Status            string `json:"status"`
	ConfirmStockReset bool   `json:"confirm_stock_reset"`
	Replenish         int    `json:"replenish"`
}

type CreateWorkerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type UpdateWorkerRequest struct {
	Name *string `json:"name,omitempty"`
	Role *string `json:"role,omitempty"`
}

type WorkerActiveRequest struct {
	Active bool `json:"active"`
}

type CreateTableRequest struct {
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
}

// Responses

type OrderLineResponse struct {
	ID        int             `json:"id"`
	ItemID    int             `json:"item_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

type OrderResponse struct {
	ID            int                 `json:"id"`
	WorkerID      int                 `json:"worker_id"`
	TableID       *int                `json:"table_id,omitempty"`
	Status        domain.Status       `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	IsPaid        bool                `json:"is_paid"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Lines         []OrderLineResponse `json:"lines"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		WorkerID:      o.WorkerID,
		TableID:       o.TableID,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: string(o.PaymentMethod),
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		Notes:         o.Notes,
		Lines:         make([]OrderLineResponse, 0, len(o.Lines)),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ID:        l.ID,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		})
	}
	return resp
}

type AddLineResponse struct {
	Order     OrderResponse `json:"order"`
	Requested int           `json:"requested"`
	Granted   int           `json:"granted"`
}

type SettlementResponse struct {
	Order     OrderResponse             `json:"order"`
	Kind      interfaces.SettlementKind `json:"kind"`
	Change    decimal.Decimal           `json:"change"`
	Shortfall decimal.Decimal           `json:"shortfall"`
}

type ItemResponse struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	Status      domain.ItemStatus `json:"status"`
	CategoryID  int               `json:"category_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func toItemResponse(i *domain.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
		Stock:       i.Stock,
		Status:      i.Status,
		CategoryID:  i.CategoryID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

type CategoryResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type WorkerResponse struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Username  string            `json:"username"`
	Role      domain.WorkerRole `json:"role"`
	IsActive  bool              `json:"is_active"`
	CreatedAt time.Time         `json:"created_at"`
}

func toWorkerResponse(w *domain.Worker) WorkerResponse {
	return WorkerResponse{
		ID:        w.ID,
		Name:      w.Name,
		Username:  w.Username,
		Role:      w.Role,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
	}
}

type TableResponse struct {
	ID         int    `json:"id"`
	Number     string `json:"number"`
	Capacity   int    `json:"capacity"`
	IsOccupied bool   `json:"is_occupied"`
}

// listOf converts every element with conv, never returning nil so empty lists
// encode as []
func listOf[T, R any](in []T, conv func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, conv(v))
	}
	return out
}
