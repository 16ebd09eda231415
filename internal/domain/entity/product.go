package entity

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals travel as plain JSON numbers in both the product feed
	// and the persisted cart blob.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a read-only catalog record. Optional fields are nil when the
// source omitted them.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	Discount    *int             `json:"discount,omitempty"`
	OldPrice    *decimal.Decimal `json:"oldPrice,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	Reviews     *int             `json:"reviews,omitempty"`
	IsNew       bool             `json:"isNew,omitempty"`
	Image       string           `json:"image"`
}

// RatingOrZero returns the product rating, treating a missing rating as 0.
func (p Product) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}
