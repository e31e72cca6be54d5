package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// CacheMetrics exports cache outcomes to Prometheus.
type CacheMetrics struct {
	lookups     *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
}

var _ ports.CacheMetrics = (*CacheMetrics)(nil)

// NewCacheMetrics creates the cache collectors and registers them with reg.
// A nil reg uses the default registerer.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &CacheMetrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cache_lookups_total",
				Help: "Cache reads by cache and outcome (hit, stale, miss, error)",
			},
			[]string{"cache", "status"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cache_store_errors_total",
				Help: "Failed key-value store operations by cache and operation",
			},
			[]string{"cache", "op"},
		),
	}
	reg.MustRegister(m.lookups, m.storeErrors)
	return m
}

func (m *CacheMetrics) ObserveLookup(cache, status string) {
	m.lookups.WithLabelValues(cache, status).Inc()
}

func (m *CacheMetrics) ObserveStoreError(cache, op string) {
	m.storeErrors.WithLabelValues(cache, op).Inc()
}

// Lookups exposes the lookup counter for tests and dashboards.
func (m *CacheMetrics) Lookups() *prometheus.CounterVec { return m.lookups }

// StoreErrors exposes the store error counter.
func (m *CacheMetrics) StoreErrors() *prometheus.CounterVec { return m.storeErrors }
