package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kishkisupermarket/khs/internal/adapter/catalogjson"
	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 10 << 20
)

// ProductSource GETs the product document from a URL.
type ProductSource struct {
	url    string
	client *http.Client
}

func NewProductSource(url string, client *http.Client) *ProductSource {
	if client == nil {
		client = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &ProductSource{url: url, client: client}
}

func (s *ProductSource) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build product request for %s: %w", s.url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products from %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch products from %s: unexpected status %s", s.url, resp.Status)
	}

	products, err := catalogjson.Decode(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read products from %s: %w", s.url, err)
	}
	return products, nil
}
