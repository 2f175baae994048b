package http

import (
	"context"
	"net/http"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/go-chi/chi/v5"
)

type ReportHandler struct {
	service  interfaces.ReportService
	location *time.Location
	logger   logger.Logger
}

// NewReportHandler reads date-only window bounds as midnight in loc
func NewReportHandler(service interfaces.ReportService, loc *time.Location, logger logger.Logger) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		service:  service,
		location: loc,
		logger:   logger,
	}
}

func (h *ReportHandler) Routes(r chi.Router) {
	r.Get("/sales", windowed(h, "report_sales_failed", func(ctx context.Context, w domain.Window) (*domain.SalesReport, error) {
		return h.service.Sales(ctx, w)
	}))
	r.Get("/popularity", windowed(h, "report_popularity_failed", func(ctx context.Context, w domain.Window) (*domain.PopularityReport, error) {
		return h.service.Popularity(ctx, w)
	}))
	r.Get("/workers", windowed(h, "report_workers_failed", func(ctx context.Context, w domain.Window) (*domain.WorkerPerformanceReport, error) {
		return h.service.WorkerPerformance(ctx, w)
	}))
	r.Get("/daily", windowed(h, "report_daily_failed", func(ctx context.Context, w domain.Window) (*domain.DailyTrendReport, error) {
		return h.service.DailyTrend(ctx, w)
	}))
	r.Get("/inventory", h.Inventory)
}

func windowed[T any](h *ReportHandler, action string, build func(context.Context, domain.Window) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := parseWindow(r, h.location)
		if err != nil {
			respondError(w, r, h.logger, action, err)
			return
		}

		report, err := build(r.Context(), window)
		if err != nil {
			respondError(w, r, h.logger, action, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func (h *ReportHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.InventoryStatus(r.Context())
	if err != nil {
		respondError(w, r, h.logger, "report_inventory_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
