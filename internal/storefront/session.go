// Package storefront ties the cart store and the catalog engine into one
// shopper session and serialises every call into it.
package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/kishkisupermarket/khs/internal/platform/debounce"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/repository"
	"github.com/kishkisupermarket/khs/internal/service"
)

// CartView is the cart as shown to the shopper: its lines plus the summary.
type CartView struct {
	Items []entity.CartLineItem `json:"items"`
	entity.CartSummary
}

type Session struct {
	mu      sync.Mutex
	cart    *service.CartStore
	catalog *service.Catalog
	source  repository.ProductSource
	search  *debounce.Debouncer
	log     logger.Logger

	// searchGen changes whenever the search term is set directly or a new
	// search is queued. A queued search only applies if it still matches.
	searchGen uint64
}

func NewSession(
	cart *service.CartStore,
	catalog *service.Catalog,
	source repository.ProductSource,
	searchDebounce time.Duration,
	log logger.Logger,
) *Session {
	return &Session{
		cart:    cart,
		catalog: catalog,
		source:  source,
		search:  debounce.New(searchDebounce),
		log:     log,
	}
}

// Start restores the persisted cart and loads the product list. A failed
// load is returned for reporting only; the session keeps working with an
// empty catalog.
func (s *Session) Start(ctx context.Context) service.LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.LoadFromStorage(ctx)
	result := s.catalog.Load(ctx, s.source)
	if result.Failed() {
		s.log.Warnf("Storefront started without products: %v", result.Err)
	} else {
		s.log.Infof("Storefront started: Products=%d, CartItems=%d", len(result.Products), s.cart.ItemCount())
	}
	return result
}

// Reload drops the loaded catalog and fetches the product list again,
// invalidating the source's cache first when it has one. The cart is left
// alone.
func (s *Session) Reload(ctx context.Context) service.LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cache, ok := s.source.(repository.ProductCache); ok {
		if err := cache.Invalidate(ctx); err != nil {
			s.log.Warnf("Failed to invalidate product cache before reload: %v", err)
		}
	}

	s.catalog.Reset()
	result := s.catalog.Load(ctx, s.source)
	if result.Failed() {
		s.log.Warnf("Product reload failed: %v", result.Err)
	} else {
		s.log.Infof("Products reloaded: Products=%d", len(result.Products))
	}
	return result
}

// AddToCart adds one unit of a catalog product. Products are looked up in
// the full list, whatever the current filters show.
func (s *Session) AddToCart(ctx context.Context, productID string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.catalog.Product(productID)
	if !ok {
		return s.cartView(), entity.ErrUnknownProduct
	}
	s.cart.AddProduct(ctx, product)
	return s.cartView(), nil
}

func (s *Session) RemoveFromCart(ctx context.Context, productID string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.RemoveProduct(ctx, productID)
	return s.cartView()
}

func (s *Session) SetQuantity(ctx context.Context, productID string, quantity int) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.SetQuantity(ctx, productID, quantity)
	return s.cartView()
}

func (s *Session) ClearCart(ctx context.Context) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.ClearCart(ctx)
	return s.cartView()
}

func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cartView()
}

func (s *Session) cartView() CartView {
	return CartView{
		Items:       s.cart.Items(),
		CartSummary: s.cart.Summary(),
	}
}

func (s *Session) Catalog() entity.CatalogPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.catalog.CurrentPage()
}

func (s *Session) SetCategory(category string) entity.CatalogPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.SetCategory(category)
	return s.catalog.CurrentPage()
}

func (s *Session) SetSortMode(mode string) entity.CatalogPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.SetSortMode(entity.SortMode(mode))
	return s.catalog.CurrentPage()
}

// SetSearchTerm applies a search immediately and cancels any queued one.
func (s *Session) SetSearchTerm(term string) entity.CatalogPage {
	s.search.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applySearch(term)
	return s.catalog.CurrentPage()
}

// applySearch sets the term and voids any queued search. Callers hold mu.
func (s *Session) applySearch(term string) {
	s.searchGen++
	s.catalog.SetSearchTerm(term)
}

// QueueSearch applies term once typing has paused for the debounce wait.
// Only the last term of a burst is applied, and a term set directly in the
// meantime wins over it.
func (s *Session) QueueSearch(term string) {
	s.mu.Lock()
	s.searchGen++
	gen := s.searchGen
	s.mu.Unlock()

	s.search.Call(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.searchGen != gen {
			s.log.Debugf("Queued search dropped: Term=%q", term)
			return
		}
		s.catalog.SetSearchTerm(term)
		s.log.Debugf("Debounced search applied: Term=%q, Results=%d", term, s.catalog.FilteredCount())
	})
}

// ChangePage returns ErrInvalidPage, with the unchanged page, when n is
// outside the current page range.
func (s *Session) ChangePage(n int) (entity.CatalogPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.ChangePage(n) {
		return s.catalog.CurrentPage(), entity.ErrInvalidPage
	}
	return s.catalog.CurrentPage(), nil
}

func (s *Session) ClearFilters() entity.CatalogPage {
	s.search.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchGen++
	s.catalog.ClearFilters()
	return s.catalog.CurrentPage()
}

// Close cancels a pending debounced search.
func (s *Session) Close() {
	s.search.Stop()
}
