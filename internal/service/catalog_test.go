package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kishkisupermarket/khs/internal/adapter/memory"
	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCatalog() (*Catalog, *metrics.MetricsManager) {
	m := metrics.NewMetricsManager("test")
	return NewCatalog(m, logger.NewNopLogger(), CatalogConfig{}), m
}

func tenProducts() []entity.Product {
	products := make([]entity.Product, 10)
	for i := range products {
		category := "pantry"
		if i%2 == 0 {
			category = "frozen"
		}
		products[i] = entity.Product{
			ID:       fmt.Sprintf("p%d", i+1),
			Name:     fmt.Sprintf("Item %02d", i+1),
			Category: category,
			Price:    decimal.NewFromInt(int64(10 - i)),
		}
	}
	return products
}

func TestCatalog_InitialState(t *testing.T) {
	catalog, _ := newTestCatalog()

	page := catalog.CurrentPage()

	assert.Equal(t, entity.DefaultFilterCriteria(), catalog.Criteria())
	assert.Equal(t, DefaultPageSize, catalog.PageSize())
	assert.True(t, page.Empty())
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Products)
}

func TestCatalog_Load_PaginatesByEight(t *testing.T) {
	catalog, _ := newTestCatalog()

	result := catalog.Load(context.Background(), memory.NewProductSource(tenProducts()))
	require.False(t, result.Failed())
	require.Len(t, result.Products, 10)

	page := catalog.CurrentPage()
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 10, page.TotalFiltered)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}, ids(page.Products))
	assert.Equal(t, []string{"frozen", "pantry"}, page.Categories)

	require.True(t, catalog.ChangePage(2))
	assert.Equal(t, []string{"p9", "p10"}, ids(catalog.CurrentPage().Products))

	assert.False(t, catalog.ChangePage(3))
	assert.False(t, catalog.ChangePage(0))
	assert.Equal(t, 2, catalog.Criteria().Page)
}

func TestCatalog_Load_FailureYieldsEmptyCatalog(t *testing.T) {
	catalog, m := newTestCatalog()
	source := new(MockProductSource)
	source.On("FetchProducts", mock.Anything).Return(nil, errors.New("503 Service Unavailable")).Once()

	result := catalog.Load(context.Background(), source)

	assert.True(t, result.Failed())
	assert.Empty(t, result.Products)
	assert.Empty(t, catalog.Products())
	assert.True(t, catalog.CurrentPage().Empty())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ProductLoadsTotal.WithLabelValues("failed")))
	source.AssertExpectations(t)
}

func TestCatalog_Load_OncePerSession(t *testing.T) {
	catalog, _ := newTestCatalog()
	source := new(MockProductSource)
	source.On("FetchProducts", mock.Anything).Return(tenProducts(), nil).Once()
	ctx := context.Background()

	first := catalog.Load(ctx, source)
	second := catalog.Load(ctx, source)

	assert.Equal(t, ids(first.Products), ids(second.Products))
	source.AssertNumberOfCalls(t, "FetchProducts", 1)

	catalog.Reset()
	source.On("FetchProducts", mock.Anything).Return(tenProducts()[:3], nil).Once()
	third := catalog.Load(ctx, source)
	assert.Len(t, third.Products, 3)
	source.AssertNumberOfCalls(t, "FetchProducts", 2)
}

func TestCatalog_CriteriaChangeResetsPage(t *testing.T) {
	ctx := context.Background()
	changes := map[string]func(c *Catalog){
		"category": func(c *Catalog) { c.SetCategory("all") },
		"sort":     func(c *Catalog) { c.SetSortMode(entity.SortPriceLow) },
		"search":   func(c *Catalog) { c.SetSearchTerm("item") },
		"clear":    func(c *Catalog) { c.ClearFilters() },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			catalog, _ := newTestCatalog()
			catalog.Load(ctx, memory.NewProductSource(tenProducts()))
			require.True(t, catalog.ChangePage(2))

			change(catalog)

			assert.Equal(t, 1, catalog.Criteria().Page)
		})
	}
}

func TestCatalog_SetCategory(t *testing.T) {
	catalog, _ := newTestCatalog()
	catalog.Load(context.Background(), memory.NewProductSource(tenProducts()))

	catalog.SetCategory("Frozen")

	page := catalog.CurrentPage()
	assert.Equal(t, 5, page.TotalFiltered)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, []string{"p1", "p3", "p5", "p7", "p9"}, ids(page.Products))

	catalog.SetCategory("")
	assert.Equal(t, entity.CategoryAll, catalog.Criteria().Category)
	assert.Equal(t, 10, catalog.FilteredCount())
}

func TestCatalog_SetSortMode_UnknownFallsBackToDefault(t *testing.T) {
	catalog, _ := newTestCatalog()
	catalog.Load(context.Background(), memory.NewProductSource(tenProducts()))
	catalog.SetSortMode(entity.SortPriceLow)
	require.Equal(t, "p10", catalog.CurrentPage().Products[0].ID)

	catalog.SetSortMode("cheapest-first")

	assert.Equal(t, entity.SortDefault, catalog.Criteria().Sort)
	assert.Equal(t, "p1", catalog.CurrentPage().Products[0].ID)
}

func TestCatalog_SearchWithNoMatches(t *testing.T) {
	catalog, _ := newTestCatalog()
	catalog.Load(context.Background(), memory.NewProductSource(tenProducts()))

	catalog.SetSearchTerm("  caviar ")

	page := catalog.CurrentPage()
	assert.Equal(t, "caviar", page.Criteria.Search)
	assert.True(t, page.Empty())
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, catalog.ChangePage(1))
}

func TestCatalog_ClearFiltersRestoresDefaults(t *testing.T) {
	catalog, _ := newTestCatalog()
	catalog.Load(context.Background(), memory.NewProductSource(tenProducts()))
	catalog.SetCategory("pantry")
	catalog.SetSortMode(entity.SortName)
	catalog.SetSearchTerm("item 0")

	catalog.ClearFilters()

	assert.Equal(t, entity.DefaultFilterCriteria(), catalog.Criteria())
	assert.Equal(t, 10, catalog.FilteredCount())
}

func TestCatalog_RecomputesOnEveryCriteriaChange(t *testing.T) {
	catalog, m := newTestCatalog()
	base := testutil.ToFloat64(m.CatalogRecomputesTotal)

	catalog.SetCategory("frozen")
	catalog.SetSortMode(entity.SortRating)
	catalog.SetSearchTerm("x")
	catalog.ClearFilters()

	assert.Equal(t, base+4, testutil.ToFloat64(m.CatalogRecomputesTotal))
}

func TestCatalog_ProductLookupIgnoresFilters(t *testing.T) {
	catalog, _ := newTestCatalog()
	catalog.Load(context.Background(), memory.NewProductSource(tenProducts()))
	catalog.SetCategory("frozen")

	p, ok := catalog.Product("p2")
	assert.True(t, ok)
	assert.Equal(t, "pantry", p.Category)

	_, ok = catalog.Product("nope")
	assert.False(t, ok)
}

func TestCatalog_CustomPageSize(t *testing.T) {
	catalog := NewCatalog(metrics.NewMetricsManager("test"), logger.NewNopLogger(), CatalogConfig{PageSize: 3})
	catalog.Load(context.Background(), memory.NewProductSource(tenProducts()))

	assert.Equal(t, 4, catalog.TotalPages())
	require.True(t, catalog.ChangePage(4))
	assert.Equal(t, []string{"p10"}, ids(catalog.CurrentPage().Products))
}
