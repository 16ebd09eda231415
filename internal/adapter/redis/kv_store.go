package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kishkisupermarket/khs/internal/repository"
	"github.com/redis/go-redis/v9"
)

type keyValueStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewKeyValueStore stores the cart blob as a plain string value. A zero ttl
// keeps keys until they are overwritten.
func NewKeyValueStore(client *redis.Client, ttl time.Duration) repository.KeyValueStore {
	return &keyValueStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *keyValueStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to get key %s from redis: %w", key, err)
	}
	return val, nil
}

func (s *keyValueStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", key, err)
	}
	return nil
}
