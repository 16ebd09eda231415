package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/service"
	"github.com/kishkisupermarket/khs/internal/storefront"
)

var validate = validator.New()

// Storefront is the session the handlers drive.
type Storefront interface {
	AddToCart(ctx context.Context, productID string) (storefront.CartView, error)
	RemoveFromCart(ctx context.Context, productID string) storefront.CartView
	SetQuantity(ctx context.Context, productID string, quantity int) storefront.CartView
	ClearCart(ctx context.Context) storefront.CartView
	Cart() storefront.CartView
	Catalog() entity.CatalogPage
	SetCategory(category string) entity.CatalogPage
	SetSortMode(mode string) entity.CatalogPage
	SetSearchTerm(term string) entity.CatalogPage
	QueueSearch(term string)
	ChangePage(n int) (entity.CatalogPage, error)
	ClearFilters() entity.CatalogPage
	Reload(ctx context.Context) service.LoadResult
}

type Handler struct {
	store Storefront
	log   logger.Logger
}

func NewHandler(store Storefront, log logger.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log,
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required,max=64"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=999"`
}

type categoryRequest struct {
	Category string `json:"category" validate:"max=64"`
}

type sortRequest struct {
	Sort string `json:"sort" validate:"max=32"`
}

type searchRequest struct {
	Search string `json:"search" validate:"max=200"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Cart())
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.store.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	view := h.store.SetQuantity(r.Context(), chi.URLParam(r, "id"), *req.Quantity)
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	view := h.store.RemoveFromCart(r.Context(), chi.URLParam(r, "id"))
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.ClearCart(r.Context()))
}

func (h *Handler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Catalog())
}

func (h *Handler) HandleSetCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.SetCategory(req.Category))
}

func (h *Handler) HandleSetSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.SetSortMode(req.Sort))
}

// HandleSetSearch applies the term at once, or with ?live=true queues it
// behind the search debouncer and answers 202 with the page as it stands.
func (h *Handler) HandleSetSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if r.URL.Query().Get("live") == "true" {
		h.store.QueueSearch(req.Search)
		h.writeJSON(w, http.StatusAccepted, h.store.Catalog())
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.SetSearchTerm(req.Search))
}

func (h *Handler) HandleChangePage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !h.decode(w, r, &req) {
		return
	}
	page, err := h.store.ChangePage(req.Page)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, page)
}

func (h *Handler) HandleClearFilters(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.ClearFilters())
}

// HandleReloadCatalog fetches the product list again. When the source is
// unavailable the catalog is left empty and 502 is returned.
func (h *Handler) HandleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	result := h.store.Reload(r.Context())
	if result.Failed() {
		h.writeError(w, http.StatusBadGateway, "Product list unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.Catalog())
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into dst and validates it. On failure it has
// already answered 400.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.Warnf("Failed to decode request: Route=%s, Error=%v", r.URL.Path, err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		h.log.Warnf("Invalid request: Route=%s, Error=%v", r.URL.Path, err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrUnknownProduct):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrInvalidPage):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Errorf("Unhandled error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}
