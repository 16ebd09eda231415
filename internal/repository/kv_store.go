package repository

import "context"

// KeyValueStore is the durable slot the cart persists into. Get returns
// ErrNotFound when the key has never been written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
