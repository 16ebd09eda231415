package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/platform/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewRouter(h *Handler, m *metrics.MetricsManager, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log, m))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.HandleGetCart)
		r.Delete("/", h.HandleClearCart)
		r.Post("/items", h.HandleAddItem)
		r.Put("/items/{id}", h.HandleSetQuantity)
		r.Delete("/items/{id}", h.HandleRemoveItem)
	})

	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/", h.HandleGetCatalog)
		r.Put("/category", h.HandleSetCategory)
		r.Put("/sort", h.HandleSetSort)
		r.Put("/search", h.HandleSetSearch)
		r.Put("/page", h.HandleChangePage)
		r.Delete("/filters", h.HandleClearFilters)
		r.Post("/reload", h.HandleReloadCatalog)
	})

	return otelhttp.NewHandler(r, "storefront")
}
