// Package catalogjson reads the {"products": [...]} document shared by the
// file and HTTP product sources.
package catalogjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/kishkisupermarket/khs/internal/repository"
)

type document struct {
	Products []productRecord `json:"products"`
}

// productRecord mirrors entity.Product but accepts ids written as numbers.
type productRecord struct {
	entity.Product
	ID productID `json:"id"`
}

type productID string

func (id *productID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = productID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or a number: %w", err)
	}
	*id = productID(n.String())
	return nil
}

// Decode parses a product document. Records without an id are skipped.
func Decode(r io.Reader) ([]entity.Product, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode product document: %v", repository.ErrMalformedData, err)
	}

	products := make([]entity.Product, 0, len(doc.Products))
	for _, rec := range doc.Products {
		if rec.ID == "" {
			continue
		}
		p := rec.Product
		p.ID = string(rec.ID)
		products = append(products, p)
	}
	return products, nil
}

// Encode writes products in the same document shape Decode reads.
func Encode(w io.Writer, products []entity.Product) error {
	if products == nil {
		products = []entity.Product{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		Products []entity.Product `json:"products"`
	}{Products: products}); err != nil {
		return fmt.Errorf("failed to encode product document: %w", err)
	}
	return nil
}
