package entity

import "strings"

type SortMode string

const (
	SortDefault   SortMode = "default"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortName      SortMode = "name"
	SortRating    SortMode = "rating"
	SortNewest    SortMode = "newest"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// ParseSortMode maps a UI value onto a SortMode. An empty value is the
// default order.
func ParseSortMode(value string) (SortMode, bool) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case "":
		return SortDefault, true
	case SortDefault, SortPriceLow, SortPriceHigh, SortName, SortRating, SortNewest:
		return mode, true
	default:
		return SortDefault, false
	}
}

type FilterCriteria struct {
	Category string   `json:"category"`
	Sort     SortMode `json:"sort"`
	Search   string   `json:"search"`
	Page     int      `json:"page"`
}

func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		Category: CategoryAll,
		Sort:     SortDefault,
		Search:   "",
		Page:     1,
	}
}

// AllCategories reports whether the category filter is off.
func (f FilterCriteria) AllCategories() bool {
	return f.Category == "" || strings.EqualFold(f.Category, CategoryAll)
}

// CatalogPage is the derived view of the catalog for the current criteria.
type CatalogPage struct {
	Products      []Product      `json:"products"`
	Page          int            `json:"page"`
	TotalPages    int            `json:"totalPages"`
	TotalFiltered int            `json:"totalFiltered"`
	PageSize      int            `json:"pageSize"`
	Criteria      FilterCriteria `json:"criteria"`
	Categories    []string       `json:"categories"`
}

// Empty reports the "no results found" state.
func (p CatalogPage) Empty() bool {
	return p.TotalFiltered == 0
}
