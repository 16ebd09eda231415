package service

import (
	"context"
	"strings"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/platform/metrics"
	"github.com/kishkisupermarket/khs/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultPageSize = 8

type CatalogConfig struct {
	PageSize int
}

// LoadResult is the outcome of the one product load per session. On
// failure Products is empty and Err carries the cause.
type LoadResult struct {
	Products []entity.Product
	Err      error
}

func (r LoadResult) Failed() bool {
	return r.Err != nil
}

// Catalog is the filter engine: the full product list, the current
// criteria and the derived list recomputed in full on every criteria
// change. It is not safe for concurrent use.
type Catalog struct {
	products   []entity.Product
	filtered   []entity.Product
	criteria   entity.FilterCriteria
	categories []string
	pageSize   int
	loaded     bool
	metrics    *metrics.MetricsManager
	log        logger.Logger
}

func NewCatalog(m *metrics.MetricsManager, log logger.Logger, cfg CatalogConfig) *Catalog {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c := &Catalog{
		pageSize: pageSize,
		metrics:  m,
		log:      log,
	}
	c.Reset()
	return c
}

// Reset returns the engine to its session-start state: no products, default
// criteria, and a load allowed again.
func (c *Catalog) Reset() {
	c.products = []entity.Product{}
	c.categories = []string{}
	c.criteria = entity.DefaultFilterCriteria()
	c.loaded = false
	c.recompute()
}

// Load fetches the product list once. A failed fetch leaves an empty catalog
// and is reported only through the result and the log. Later calls in the
// same session return the current list without fetching.
func (c *Catalog) Load(ctx context.Context, source repository.ProductSource) LoadResult {
	if c.loaded {
		c.log.Debug("Catalog already loaded for this session, skipping fetch")
		return LoadResult{Products: c.Products()}
	}
	c.loaded = true

	ctx, span := tracer.Start(ctx, "Catalog.Load")
	defer span.End()

	products, err := source.FetchProducts(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "product load failed")
		c.metrics.ProductLoadsTotal.WithLabelValues("failed").Inc()
		c.log.Errorf("Failed to load products, continuing with an empty catalog: %v", err)
		c.setProducts(nil)
		return LoadResult{Products: []entity.Product{}, Err: err}
	}

	span.SetAttributes(attribute.Int("catalog.products", len(products)))
	c.metrics.ProductLoadsTotal.WithLabelValues("loaded").Inc()
	c.log.Infof("Catalog loaded: Products=%d", len(products))
	c.setProducts(products)
	return LoadResult{Products: c.Products()}
}

func (c *Catalog) setProducts(products []entity.Product) {
	c.products = make([]entity.Product, len(products))
	copy(c.products, products)
	c.categories = distinctCategories(c.products)
	c.criteria.Page = 1
	c.recompute()
}

func (c *Catalog) SetCategory(category string) {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, entity.CategoryAll) {
		category = entity.CategoryAll
	}
	c.criteria.Category = category
	c.applyCriteria()
}

// SetSortMode changes the ordering. Unknown modes fall back to the default
// order.
func (c *Catalog) SetSortMode(mode entity.SortMode) {
	parsed, ok := entity.ParseSortMode(string(mode))
	if !ok {
		c.log.Debugf("Unknown sort mode %q, using default order", mode)
	}
	c.criteria.Sort = parsed
	c.applyCriteria()
}

func (c *Catalog) SetSearchTerm(term string) {
	c.criteria.Search = strings.TrimSpace(term)
	c.applyCriteria()
}

// ClearFilters restores the default criteria.
func (c *Catalog) ClearFilters() {
	c.criteria = entity.DefaultFilterCriteria()
	c.recompute()
}

// ChangePage moves to page n and reports whether it did. Pages outside
// [1, TotalPages] are rejected and leave the current page unchanged.
func (c *Catalog) ChangePage(n int) bool {
	if n < 1 || n > c.TotalPages() {
		c.log.Debugf("Page change to %d rejected, total pages %d", n, c.TotalPages())
		return false
	}
	c.criteria.Page = n
	return true
}

func (c *Catalog) applyCriteria() {
	c.criteria.Page = 1
	c.recompute()
}

func (c *Catalog) recompute() {
	c.filtered = FilterProducts(c.products, c.criteria)
	c.metrics.CatalogRecomputesTotal.Inc()
}

func (c *Catalog) Criteria() entity.FilterCriteria {
	return c.criteria
}

func (c *Catalog) FilteredCount() int {
	return len(c.filtered)
}

func (c *Catalog) TotalPages() int {
	return TotalPages(len(c.filtered), c.pageSize)
}

func (c *Catalog) PageSize() int {
	return c.pageSize
}

// Products returns a copy of the full list in load order.
func (c *Catalog) Products() []entity.Product {
	out := make([]entity.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks an id up in the full list, ignoring the current filters.
func (c *Catalog) Product(id string) (entity.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) CurrentPage() entity.CatalogPage {
	return entity.CatalogPage{
		Products:      PageSlice(c.filtered, c.criteria.Page, c.pageSize),
		Page:          c.criteria.Page,
		TotalPages:    c.TotalPages(),
		TotalFiltered: len(c.filtered),
		PageSize:      c.pageSize,
		Criteria:      c.criteria,
		Categories:    c.Categories(),
	}
}

func distinctCategories(products []entity.Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0)
	for _, p := range products {
		key := strings.ToLower(p.Category)
		if p.Category == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}
