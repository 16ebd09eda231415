package memory

import (
	"context"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
)

// ProductSource serves a fixed product list.
type ProductSource struct {
	products []entity.Product
}

func NewProductSource(products []entity.Product) *ProductSource {
	out := make([]entity.Product, len(products))
	copy(out, products)
	return &ProductSource{products: out}
}

func (s *ProductSource) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	out := make([]entity.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}
