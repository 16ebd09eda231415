package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the storefront's Prometheus collectors on a private
// registry.
type MetricsManager struct {
	Registry               *prometheus.Registry
	CartOperationsTotal    *prometheus.CounterVec
	StorageFailuresTotal   *prometheus.CounterVec
	CatalogRecomputesTotal prometheus.Counter
	ProductLoadsTotal      *prometheus.CounterVec
	HTTPRequestLatency     *prometheus.HistogramVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	cartOperationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Total number of cart operations by kind.",
	}, []string{"operation"})

	storageFailuresTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_storage_failures_total",
		Help:      "Total number of failed cart storage reads and writes.",
	}, []string{"operation"})

	catalogRecomputesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_recomputes_total",
		Help:      "Total number of full filter/sort recomputes of the catalog view.",
	})

	productLoadsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_loads_total",
		Help:      "Total number of product list loads by outcome.",
	}, []string{"outcome"})

	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})

	registry.MustRegister(
		cartOperationsTotal,
		storageFailuresTotal,
		catalogRecomputesTotal,
		productLoadsTotal,
		httpRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:               registry,
		CartOperationsTotal:    cartOperationsTotal,
		StorageFailuresTotal:   storageFailuresTotal,
		CatalogRecomputesTotal: catalogRecomputesTotal,
		ProductLoadsTotal:      productLoadsTotal,
		HTTPRequestLatency:     httpRequestLatency,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
