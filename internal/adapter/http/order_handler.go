package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders   interfaces.OrderService
	payments interfaces.PaymentService
	logger   logger.Logger
}

func NewOrderHandler(orders interfaces.OrderService, payments interfaces.PaymentService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		payments: payments,
		logger:   logger,
	}
}

func (h *OrderHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateOrder)
	r.Get("/", h.ListOrders)
	r.Get("/{orderID}", h.GetOrder)
	r.Post("/{orderID}/lines", h.AddLine)
	r.Post("/{orderID}/status", h.ChangeStatus)
	r.Post("/{orderID}/cancel", h.Cancel)
	r.Post("/{orderID}/payment", h.Settle)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "order_create_failed", err)
		return
	}

	order, err := h.orders.Create(r.Context(), interfaces.CreateOrderCommand{
		WorkerID: req.WorkerID,
		TableID:  req.TableID,
	})
	if err != nil {
		respondError(w, r, h.logger, "order_create_failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderID")
	if err != nil {
		respondError(w, r, h.logger, "order_get_failed", err)
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, "order_get_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// ListOrders accepts status (comma separated), unpaid and worker_id filters
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := orderFilter(r)
	if err != nil {
		respondError(w, r, h.logger, "order_list_failed", err)
		return
	}

	orders, err := h.orders.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.logger, "order_list_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(orders, toOrderResponse))
}

func orderFilter(r *http.Request) (domain.OrderFilter, error) {
	var filter domain.OrderFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		for _, s := range strings.Split(v, ",") {
			status, err := domain.ParseStatus(strings.TrimSpace(s))
			if err != nil {
				return filter, err
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	unpaid, err := queryBool(r, "unpaid")
	if err != nil {
		return filter, err
	}
	filter.Unpaid = unpaid

	if v := q.Get("worker_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid worker_id", domain.ErrInvalidArgument)
		}
		filter.WorkerID = id
	}
	return filter, nil
}

func (h *OrderHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderID")
	if err != nil {
		respondError(w, r, h.logger, "order_add_line_failed", err)
		return
	}
	var req AddLineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "order_add_line_failed", err)
		return
	}

	result, err := h.orders.AddLine(r.Context(), interfaces.AddLineCommand{
		OrderID:                 id,
		ItemID:                  req.ItemID,
		Quantity:                req.Quantity,
		AllowPartialFulfillment: req.AllowPartial,
	})
	if err != nil {
		respondError(w, r, h.logger, "order_add_line_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, AddLineResponse{
		Order:     toOrderResponse(result.Order),
		Requested: result.Requested,
		Granted:   result.Granted,
	})
}

func (h *OrderHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderID")
	if err != nil {
		respondError(w, r, h.logger, "order_status_failed", err)
		return
	}
	var req ChangeStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "order_status_failed", err)
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		respondError(w, r, h.logger, "order_status_failed", err)
		return
	}

	order, err := h.orders.ChangeStatus(r.Context(), interfaces.ChangeStatusCommand{
		OrderID: id,
		Status:  status,
		Refund:  req.Refund,
	})
	if err != nil {
		respondError(w, r, h.logger, "order_status_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderID")
	if err != nil {
		respondError(w, r, h.logger, "order_cancel_failed", err)
		return
	}
	var req CancelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "order_cancel_failed", err)
		return
	}

	order, err := h.orders.CancelWithReason(r.Context(), id, req.Reason, req.Refund)
	if err != nil {
		respondError(w, r, h.logger, "order_cancel_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderID")
	if err != nil {
		respondError(w, r, h.logger, "order_settle_failed", err)
		return
	}
	var req SettleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "order_settle_failed", err)
		return
	}

	settlement, err := h.payments.Settle(r.Context(), interfaces.SettleCommand{
		OrderID:      id,
		Method:       domain.PaymentMethod(req.Method),
		Tendered:     req.Tendered,
		ForcePartial: req.ForcePartial,
	})
	if err != nil {
		respondError(w, r, h.logger, "order_settle_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, SettlementResponse{
		Order:     toOrderResponse(settlement.Order),
		Kind:      settlement.Kind,
		Change:    settlement.Change,
		Shortfall: settlement.Shortfall,
	})
}
