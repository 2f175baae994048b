package http

import (
	"context"
	"net/http"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services are the application services the API exposes
type Services struct {
	Orders   interfaces.OrderService
	Payments interfaces.PaymentService
	Catalog  interfaces.CatalogService
	Staff    interfaces.StaffService
	Tables   interfaces.TableService
	Reports  interfaces.ReportService

	// Health checks backing services for /health; any failure answers 503
	Health map[string]func(ctx context.Context) error
}

func NewRouter(svc Services, loc *time.Location, logger logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))

	orders := NewOrderHandler(svc.Orders, svc.Payments, logger)
	catalog := NewCatalogHandler(svc.Catalog, logger)
	staff := NewStaffHandler(svc.Staff, svc.Tables, logger)
	reports := NewReportHandler(svc.Reports, loc, logger)

	r.Get("/health", healthHandler(svc.Health, logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", orders.Routes)
		r.Route("/items", catalog.ItemRoutes)
		r.Route("/categories", catalog.CategoryRoutes)
		r.Route("/workers", staff.WorkerRoutes)
		r.Route("/tables", staff.TableRoutes)
		r.Route("/reports", reports.Routes)
	})

	return r
}

func healthHandler(checks map[string]func(context.Context) error, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok"}
		code := http.StatusOK

		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				logger.Error("health_check_failed", "Dependency is unhealthy", requestID(r), map[string]interface{}{
					"dependency": name,
				}, err)
				body[name] = "unavailable"
				body["status"] = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			body[name] = "ok"
		}
		writeJSON(w, code, body)
	}
}
