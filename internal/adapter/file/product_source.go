package file

import (
	"context"
	"fmt"
	"os"

	"github.com/kishkisupermarket/khs/internal/adapter/catalogjson"
	"github.com/kishkisupermarket/khs/internal/domain/entity"
)

// ProductSource reads the product document from a static file.
type ProductSource struct {
	path string
}

func NewProductSource(path string) *ProductSource {
	return &ProductSource{path: path}
}

func (s *ProductSource) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open product file %s: %w", s.path, err)
	}
	defer f.Close()

	products, err := catalogjson.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read product file %s: %w", s.path, err)
	}
	return products, nil
}

// WriteProducts replaces the file at path with products in the document
// shape FetchProducts reads.
func WriteProducts(path string, products []entity.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create product file %s: %w", path, err)
	}
	if err := catalogjson.Encode(f, products); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write product file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close product file %s: %w", path, err)
	}
	return nil
}
