package entity

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// cartSnapshot is the persisted shape {items, total}. The total is written
// for readers of the blob but ignored on decode.
type cartSnapshot struct {
	Items []CartLineItem  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// storedLineItem accepts items written by older storefront builds, which
// appended one entry per click and carried no quantity field.
type storedLineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity *int            `json:"quantity"`
}

type storedCart struct {
	Items []storedLineItem `json:"items"`
}

func (c *Cart) MarshalSnapshot() ([]byte, error) {
	data, err := json.Marshal(cartSnapshot{
		Items: c.Items,
		Total: c.Total(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	return data, nil
}

// DecodeCart parses a persisted cart. Lines without a quantity count as one
// unit, lines with no id or a quantity below 1 are dropped and repeated ids are
// merged so the one-line-per-product rule holds after a load.
func DecodeCart(data []byte) (*Cart, error) {
	var stored storedCart
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart snapshot: %w", err)
	}

	cart := NewCart()
	for _, s := range stored.Items {
		quantity := 1
		if s.Quantity != nil {
			quantity = *s.Quantity
		}
		if quantity < 1 || s.ID == "" {
			continue
		}
		if existing, _ := cart.GetItem(s.ID); existing != nil {
			existing.Quantity += quantity
			continue
		}
		cart.Items = append(cart.Items, CartLineItem{
			ID:       s.ID,
			Name:     s.Name,
			Price:    s.Price,
			Image:    s.Image,
			Quantity: quantity,
		})
	}
	return cart, nil
}
