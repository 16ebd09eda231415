package repository

import (
	"context"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
)

// ProductSource delivers the full product list once per session.
type ProductSource interface {
	FetchProducts(ctx context.Context) ([]entity.Product, error)
}

// ProductCache is implemented by sources that keep a copy of the list.
// Invalidate drops it so the next fetch reaches the origin.
type ProductCache interface {
	Invalidate(ctx context.Context) error
}
