package entity

import (
	"github.com/shopspring/decimal"
)

type CartLineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

func NewCartLineItem(p Product) CartLineItem {
	return CartLineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	}
}

// Subtotal is price × quantity for this line.
func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds line items in insertion order. There is at most one line per
// product id; the total is always derived from the items.
type Cart struct {
	Items []CartLineItem
}

func NewCart() *Cart {
	return &Cart{
		Items: make([]CartLineItem, 0),
	}
}

func (c *Cart) GetItem(productID string) (*CartLineItem, int) {
	for i, item := range c.Items {
		if item.ID == productID {
			return &c.Items[i], i
		}
	}
	return nil, -1
}

// AddProduct merges the product into the cart: an existing line gets one
// more unit, otherwise a new line with quantity 1 is appended. The returned
// item reflects the line after the change.
func (c *Cart) AddProduct(p Product) CartLineItem {
	item, _ := c.GetItem(p.ID)
	if item != nil {
		item.Quantity++
		return *item
	}
	newItem := NewCartLineItem(p)
	c.Items = append(c.Items, newItem)
	return newItem
}

// RemoveItem drops the line for productID and reports whether one existed.
func (c *Cart) RemoveItem(productID string) bool {
	_, index := c.GetItem(productID)
	if index == -1 {
		return false
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return true
}

// SetQuantity overwrites the quantity of an existing line. A quantity below
// 1 removes the line. Unknown ids are ignored.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	item, index := c.GetItem(productID)
	if item == nil {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:index], c.Items[index+1:]...)
		return true
	}
	item.Quantity = quantity
	return true
}

func (c *Cart) Clear() {
	c.Items = make([]CartLineItem, 0)
}

// ItemCount is the sum of quantities, not the number of distinct lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Snapshot copies the items so callers cannot mutate cart state.
func (c *Cart) Snapshot() []CartLineItem {
	items := make([]CartLineItem, len(c.Items))
	copy(items, c.Items)
	return items
}

// CartSummary is the read model shown next to the cart icon and on the cart
// page.
type CartSummary struct {
	ItemCount      int             `json:"itemCount"`
	LineCount      int             `json:"lineCount"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formattedTotal"`
}

func (c *Cart) Summary(currencySymbol string) CartSummary {
	total := c.Total()
	return CartSummary{
		ItemCount:      c.ItemCount(),
		LineCount:      len(c.Items),
		Total:          total,
		FormattedTotal: FormatPrice(total, currencySymbol),
	}
}

func FormatPrice(amount decimal.Decimal, currencySymbol string) string {
	return currencySymbol + amount.StringFixed(2)
}
