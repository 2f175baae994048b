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

type CatalogHandler struct {
	service interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service interfaces.CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CatalogHandler) ItemRoutes(r chi.Router) {
	r.Post("/", h.AddItem)
	r.Get("/", h.ListItems)
	r.Get("/{itemID}", h.GetItem)
	r.Patch("/{itemID}", h.UpdateItem)
	r.Delete("/{itemID}", h.DeleteItem)
	r.Post("/{itemID}/status", h.SetItemStatus)
}

func (h *CatalogHandler) CategoryRoutes(r chi.Router) {
	r.Post("/", h.AddCategory)
	r.Get("/", h.ListCategories)
}

func (h *CatalogHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "category_create_failed", err)
		return
	}

	c, err := h.service.AddCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		respondError(w, r, h.logger, "category_create_failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, h.logger, "category_list_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(categories, func(c *domain.Category) CategoryResponse {
		return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
	}))
}

func (h *CatalogHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "item_create_failed", err)
		return
	}

	item, err := h.service.AddItem(r.Context(), interfaces.AddItemCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      domain.ItemStatus(req.Status),
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondError(w, r, h.logger, "item_create_failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "itemID")
	if err != nil {
		respondError(w, r, h.logger, "item_get_failed", err)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, "item_get_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// ListItems accepts category_id, status (comma separated) and in_stock filters
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var filter domain.ItemFilter
	q := r.URL.Query()

	if v := q.Get("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, r, h.logger, "item_list_failed",
				fmt.Errorf("%w: invalid category_id", domain.ErrInvalidArgument))
			return
		}
		filter.CategoryID = id
	}
	if v := q.Get("status"); v != "" {
		for _, s := range strings.Split(v, ",") {
			status, err := domain.ParseItemStatus(strings.TrimSpace(s))
			if err != nil {
				respondError(w, r, h.logger, "item_list_failed", err)
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	inStock, err := queryBool(r, "in_stock")
	if err != nil {
		respondError(w, r, h.logger, "item_list_failed", err)
		return
	}
	filter.InStockOnly = inStock

	items, err := h.service.ListItems(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.logger, "item_list_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items, toItemResponse))
}

func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "itemID")
	if err != nil {
		respondError(w, r, h.logger, "item_update_failed", err)
		return
	}
	var req UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "item_update_failed", err)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), interfaces.UpdateItemCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondError(w, r, h.logger, "item_update_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// DeleteItem removes an unreferenced item. With ?discontinue=true a
// referenced item is discontinued instead and returned with 200.
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "itemID")
	if err != nil {
		respondError(w, r, h.logger, "item_delete_failed", err)
		return
	}
	discontinue, err := queryBool(r, "discontinue")
	if err != nil {
		respondError(w, r, h.logger, "item_delete_failed", err)
		return
	}

	item, err := h.service.DeleteItem(r.Context(), id, discontinue)
	if err != nil {
		respondError(w, r, h.logger, "item_delete_failed", err)
		return
	}
	if item != nil {
		writeJSON(w, http.StatusOK, toItemResponse(item))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) SetItemStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "itemID")
	if err != nil {
		respondError(w, r, h.logger, "item_status_failed", err)
		return
	}
	var req ItemStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "item_status_failed", err)
		return
	}
	status, err := domain.ParseItemStatus(req.Status)
	if err != nil {
		respondError(w, r, h.logger, "item_status_failed", err)
		return
	}

	item, err := h.service.SetItemStatus(r.Context(), id, status, interfaces.SetStatusOptions{
		ConfirmStockReset: req.ConfirmStockReset,
		Replenish:         req.Replenish,
	})
	if err != nil {
		respondError(w, r, h.logger, "item_status_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}
