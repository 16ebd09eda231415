package service

import (
	"slices"
	"strings"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
)

// FilterProducts derives the display list for criteria from the full product
// list. It never modifies products and always returns a new slice, so the
// same inputs give the same output in the same order.
func FilterProducts(products []entity.Product, criteria entity.FilterCriteria) []entity.Product {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))

	filtered := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if !criteria.AllCategories() && !strings.EqualFold(p.Category, strings.TrimSpace(criteria.Category)) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, criteria.Sort)
	return filtered
}

func matchesSearch(p entity.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

// sortProducts orders in place. Every mode is stable so ties keep their
// post-filter order.
func sortProducts(products []entity.Product, mode entity.SortMode) {
	switch mode {
	case entity.SortPriceLow:
		slices.SortStableFunc(products, func(a, b entity.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case entity.SortPriceHigh:
		slices.SortStableFunc(products, func(a, b entity.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case entity.SortName:
		slices.SortStableFunc(products, func(a, b entity.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case entity.SortRating:
		slices.SortStableFunc(products, func(a, b entity.Product) int {
			ra, rb := a.RatingOrZero(), b.RatingOrZero()
			switch {
			case ra > rb:
				return -1
			case ra < rb:
				return 1
			default:
				return 0
			}
		})
	case entity.SortNewest:
		slices.SortStableFunc(products, func(a, b entity.Product) int {
			switch {
			case a.IsNew && !b.IsNew:
				return -1
			case !a.IsNew && b.IsNew:
				return 1
			default:
				return 0
			}
		})
	}
}

// TotalPages is ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// PageSlice returns the products on the 1-based page. Out-of-range pages
// yield an empty slice.
func PageSlice(products []entity.Product, page, pageSize int) []entity.Product {
	if page < 1 || pageSize <= 0 {
		return []entity.Product{}
	}
	start := (page - 1) * pageSize
	if start >= len(products) {
		return []entity.Product{}
	}
	end := min(start+pageSize, len(products))

	out := make([]entity.Product, end-start)
	copy(out, products[start:end])
	return out
}
