package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/platform/metrics"
	"github.com/kishkisupermarket/khs/internal/repository"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultCartStorageKey = "kishki_cart"
	defaultCurrencySymbol = "$"
)

var tracer = otel.Tracer("github.com/kishkisupermarket/khs/internal/service")

type CartStoreConfig struct {
	StorageKey     string
	CurrencySymbol string
	SubjectPrefix  string
}

// CartStore owns the authoritative line items of the shopper's cart and
// keeps the durable slot in step with them. It is not safe for concurrent
// use; callers serialise access.
type CartStore struct {
	cart           *entity.Cart
	store          repository.KeyValueStore
	publisher      repository.EventPublisher
	metrics        *metrics.MetricsManager
	log            logger.Logger
	storageKey     string
	currencySymbol string
	subjectPrefix  string
}

func NewCartStore(
	store repository.KeyValueStore,
	publisher repository.EventPublisher,
	m *metrics.MetricsManager,
	log logger.Logger,
	cfg CartStoreConfig,
) *CartStore {
	storageKey := cfg.StorageKey
	if storageKey == "" {
		storageKey = DefaultCartStorageKey
	}
	currencySymbol := cfg.CurrencySymbol
	if currencySymbol == "" {
		currencySymbol = defaultCurrencySymbol
	}
	if publisher == nil {
		publisher = repository.NewNoopPublisher()
	}

	return &CartStore{
		cart:           entity.NewCart(),
		store:          store,
		publisher:      publisher,
		metrics:        m,
		log:            log,
		storageKey:     storageKey,
		currencySymbol: currencySymbol,
		subjectPrefix:  cfg.SubjectPrefix,
	}
}

// AddProduct captures the product's id, name, price and image into the cart.
// A product already in the cart gets one more unit.
func (s *CartStore) AddProduct(ctx context.Context, product entity.Product) {
	s.log.Infof("Adding product to cart: ProductID=%s, Name=%s", product.ID, product.Name)
	item := s.cart.AddProduct(product)
	s.metrics.CartOperationsTotal.WithLabelValues("add").Inc()

	s.persist(ctx)
	s.publish(ctx, entity.EventItemAdded, &item)
}

// RemoveProduct drops the line for productID. Unknown ids leave the cart
// as it was.
func (s *CartStore) RemoveProduct(ctx context.Context, productID string) {
	item, _ := s.cart.GetItem(productID)
	if item == nil {
		s.log.Debugf("Remove ignored, product %s is not in the cart", productID)
		s.persist(ctx)
		return
	}
	removed := *item

	s.log.Infof("Removing product from cart: ProductID=%s", productID)
	s.cart.RemoveItem(productID)
	s.metrics.CartOperationsTotal.WithLabelValues("remove").Inc()

	s.persist(ctx)
	s.publish(ctx, entity.EventItemRemoved, &removed)
}

// SetQuantity overwrites the quantity of a line. Zero or less removes it.
func (s *CartStore) SetQuantity(ctx context.Context, productID string, quantity int) {
	item, _ := s.cart.GetItem(productID)
	if item == nil {
		s.log.Debugf("Quantity change ignored, product %s is not in the cart", productID)
		return
	}
	changed := *item
	changed.Quantity = quantity

	s.log.Infof("Setting cart quantity: ProductID=%s, Quantity=%d", productID, quantity)
	s.cart.SetQuantity(productID, quantity)
	s.metrics.CartOperationsTotal.WithLabelValues("set_quantity").Inc()

	s.persist(ctx)
	if quantity <= 0 {
		changed.Quantity = 0
		s.publish(ctx, entity.EventItemRemoved, &changed)
		return
	}
	s.publish(ctx, entity.EventQuantitySet, &changed)
}

func (s *CartStore) ClearCart(ctx context.Context) {
	s.log.Info("Clearing cart")
	s.cart.Clear()
	s.metrics.CartOperationsTotal.WithLabelValues("clear").Inc()

	s.persist(ctx)
	s.publish(ctx, entity.EventCartCleared, nil)
}

// ItemCount is the number of units in the cart across all lines.
func (s *CartStore) ItemCount() int {
	return s.cart.ItemCount()
}

// TotalPrice is recomputed from the line items on every call.
func (s *CartStore) TotalPrice() decimal.Decimal {
	return s.cart.Total()
}

func (s *CartStore) Items() []entity.CartLineItem {
	return s.cart.Snapshot()
}

func (s *CartStore) Summary() entity.CartSummary {
	return s.cart.Summary(s.currencySymbol)
}

// SaveToStorage writes {items, total} under the cart storage key.
func (s *CartStore) SaveToStorage(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "CartStore.SaveToStorage")
	defer span.End()
	span.SetAttributes(attribute.Int("cart.lines", len(s.cart.Items)))

	data, err := s.cart.MarshalSnapshot()
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.store.Set(ctx, s.storageKey, string(data)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("could not save cart under key %s: %w", s.storageKey, err)
	}
	return nil
}

// LoadFromStorage replaces the in-memory cart with the persisted one. A
// missing, unreadable or corrupt slot leaves an empty cart; the cause is
// logged and never returned.
func (s *CartStore) LoadFromStorage(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "CartStore.LoadFromStorage")
	defer span.End()

	raw, err := s.store.Get(ctx, s.storageKey)
	if err != nil {
		s.cart = entity.NewCart()
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debugf("No stored cart under key %s, starting empty", s.storageKey)
			return
		}
		span.RecordError(err)
		s.metrics.StorageFailuresTotal.WithLabelValues("load").Inc()
		s.log.Warnf("Could not read stored cart under key %s, starting empty: %v", s.storageKey, err)
		return
	}

	cart, err := entity.DecodeCart([]byte(raw))
	if err != nil {
		span.RecordError(err)
		s.cart = entity.NewCart()
		s.metrics.StorageFailuresTotal.WithLabelValues("decode").Inc()
		s.log.Warnf("Stored cart under key %s is corrupt, starting empty: %v", s.storageKey, err)
		return
	}

	s.cart = cart
	s.log.Infof("Cart restored from storage: Lines=%d, Items=%d", len(cart.Items), cart.ItemCount())
}

// persist is fire-and-forget: a failed write is logged and counted but the
// in-memory cart stays authoritative.
func (s *CartStore) persist(ctx context.Context) {
	if err := s.SaveToStorage(ctx); err != nil {
		s.metrics.StorageFailuresTotal.WithLabelValues("save").Inc()
		s.log.Errorf("Error saving cart: %v", err)
	}
}

func (s *CartStore) publish(ctx context.Context, eventType entity.CartEventType, item *entity.CartLineItem) {
	event := entity.NewCartEvent(eventType, item, s.cart)
	subject := string(eventType)
	if s.subjectPrefix != "" {
		subject = s.subjectPrefix + "." + subject
	}
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		s.log.Warnf("Failed to publish %s event: %v", eventType, err)
	}
}
