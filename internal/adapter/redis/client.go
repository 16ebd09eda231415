package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/kishkisupermarket/khs/internal/app/config"
	"github.com/kishkisupermarket/khs/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 5 * time.Second
)

func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := redis.NewClient(opts)

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if _, err := client.Ping(dialCtx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis ping to %s: %w", repository.ErrConnectionFailed, cfg.Addr, err)
	}

	return client, nil
}
