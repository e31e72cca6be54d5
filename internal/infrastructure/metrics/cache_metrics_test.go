package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarhouse/storefront-cache/internal/infrastructure/metrics"
)

func TestCacheMetrics_CountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCacheMetrics(reg)

	m.ObserveLookup("products", "hit")
	m.ObserveLookup("products", "hit")
	m.ObserveLookup("collections", "miss")
	m.ObserveStoreError("favorites", "set")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups().WithLabelValues("products", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups().WithLabelValues("collections", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors().WithLabelValues("favorites", "set")))

	n, err := testutil.GatherAndCount(reg, "storefront_cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestHTTPMetrics_RegisterOnOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)
	m.RequestsTotal.WithLabelValues("GET", "/health", "200").Inc()

	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal))
}
