package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartEventType string

const (
	EventItemAdded   CartEventType = "cart.item_added"
	EventItemRemoved CartEventType = "cart.item_removed"
	EventQuantitySet CartEventType = "cart.quantity_set"
	EventCartCleared CartEventType = "cart.cleared"
)

// CartEvent is emitted after each cart mutation for notification and
// analytics consumers.
type CartEvent struct {
	ID          string          `json:"id"`
	Type        CartEventType   `json:"type"`
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func NewCartEvent(eventType CartEventType, item *CartLineItem, cart *Cart) CartEvent {
	event := CartEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ItemCount:  cart.ItemCount(),
		Total:      cart.Total(),
		OccurredAt: time.Now().UTC(),
	}
	if item != nil {
		event.ProductID = item.ID
		event.ProductName = item.Name
		event.Quantity = item.Quantity
	}
	return event
}
