package http

import (
	"net/http"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/go-chi/chi/v5"
)

// StaffHandler serves workers and dining tables
type StaffHandler struct {
	staff  interfaces.StaffService
	tables interfaces.TableService
	logger logger.Logger
}

func NewStaffHandler(staff interfaces.StaffService, tables interfaces.TableService, logger logger.Logger) *StaffHandler {
	return &StaffHandler{
		staff:  staff,
		tables: tables,
		logger: logger,
	}
}

func (h *StaffHandler) WorkerRoutes(r chi.Router) {
	r.Post("/", h.AddWorker)
	r.Get("/", h.ListWorkers)
	r.Patch("/{workerID}", h.UpdateWorker)
	r.Post("/{workerID}/active", h.SetWorkerActive)
}

func (h *StaffHandler) TableRoutes(r chi.Router) {
	r.Post("/", h.AddTable)
	r.Get("/", h.ListTables)
}

func (h *StaffHandler) AddWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "worker_create_failed", err)
		return
	}

	worker, err := h.staff.AddWorker(r.Context(), interfaces.AddWorkerCommand{
		Name:     req.Name,
		Username: req.Username,
		Role:     domain.WorkerRole(req.Role),
	})
	if err != nil {
		respondError(w, r, h.logger, "worker_create_failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkerResponse(worker))
}

func (h *StaffHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := queryBool(r, "active")
	if err != nil {
		respondError(w, r, h.logger, "worker_list_failed", err)
		return
	}

	workers, err := h.staff.ListWorkers(r.Context(), activeOnly)
	if err != nil {
		respondError(w, r, h.logger, "worker_list_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(workers, toWorkerResponse))
}

func (h *StaffHandler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "workerID")
	if err != nil {
		respondError(w, r, h.logger, "worker_update_failed", err)
		return
	}
	var req UpdateWorkerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "worker_update_failed", err)
		return
	}

	cmd := interfaces.UpdateWorkerCommand{ID: id, Name: req.Name}
	if req.Role != nil {
		role, err := domain.ParseWorkerRole(*req.Role)
		if err != nil {
			respondError(w, r, h.logger, "worker_update_failed", err)
			return
		}
		cmd.Role = &role
	}

	worker, err := h.staff.UpdateWorker(r.Context(), cmd)
	if err != nil {
		respondError(w, r, h.logger, "worker_update_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerResponse(worker))
}

func (h *StaffHandler) SetWorkerActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "workerID")
	if err != nil {
		respondError(w, r, h.logger, "worker_active_failed", err)
		return
	}
	var req WorkerActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "worker_active_failed", err)
		return
	}

	worker, err := h.staff.SetWorkerActive(r.Context(), id, req.Active)
	if err != nil {
		respondError(w, r, h.logger, "worker_active_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerResponse(worker))
}

func (h *StaffHandler) AddTable(w http.ResponseWriter, r *http.Request) {
	var req CreateTableRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, "table_create_failed", err)
		return
	}

	t, err := h.tables.AddTable(r.Context(), req.Number, req.Capacity)
	if err != nil {
		respondError(w, r, h.logger, "table_create_failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTableResponse(t))
}

func (h *StaffHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	onlyFree, err := queryBool(r, "free")
	if err != nil {
		respondError(w, r, h.logger, "table_list_failed", err)
		return
	}

	tables, err := h.tables.List(r.Context(), onlyFree)
	if err != nil {
		respondError(w, r, h.logger, "table_list_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(tables, toTableResponse))
}

func toTableResponse(t *domain.Table) TableResponse {
	return TableResponse{ID: t.ID, Number: t.Number, Capacity: t.Capacity, IsOccupied: t.IsOccupied}
}
