package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	ProductCacheKey   = "catalog:products"
	defaultProductTTL = 5 * time.Minute
)

// CachingProductSource serves the product list from Redis and falls through
// to the wrapped source on a miss. Cache errors never fail a load.
type CachingProductSource struct {
	client *redis.Client
	source repository.ProductSource
	ttl    time.Duration
	log    logger.Logger
}

func NewCachingProductSource(client *redis.Client, source repository.ProductSource, ttl time.Duration, log logger.Logger) *CachingProductSource {
	if ttl <= 0 {
		ttl = defaultProductTTL
	}
	return &CachingProductSource{
		client: client,
		source: source,
		ttl:    ttl,
		log:    log,
	}
}

func (c *CachingProductSource) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := c.get(ctx)
	if err == nil {
		c.log.Debugf("Product list served from cache: Products=%d", len(products))
		return products, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		c.log.Warnf("Product cache read failed, fetching from source: %v", err)
	}

	products, err = c.source.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, products); err != nil {
		c.log.Warnf("Failed to cache product list: %v", err)
	}
	return products, nil
}

func (c *CachingProductSource) get(ctx context.Context) ([]entity.Product, error) {
	val, err := c.client.Get(ctx, ProductCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product list from redis: %w", err)
	}

	var products []entity.Product
	if err := json.Unmarshal(val, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached product list: %w", err)
	}
	return products, nil
}

func (c *CachingProductSource) set(ctx context.Context, products []entity.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal product list for cache: %w", err)
	}
	if err := c.client.Set(ctx, ProductCacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product list in redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached list so the next load hits the source.
func (c *CachingProductSource) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, ProductCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete product cache from redis: %w", err)
	}
	return nil
}

var _ repository.ProductCache = (*CachingProductSource)(nil)
