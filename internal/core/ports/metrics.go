package ports

// CacheMetrics records cache outcomes. Cache names are short labels such as "products".
type CacheMetrics interface {
	ObserveLookup(cache string, status string)
	ObserveStoreError(cache string, op string)
}

// NopCacheMetrics discards every observation.
type NopCacheMetrics struct{}

func (NopCacheMetrics) ObserveLookup(string, string)     {}
func (NopCacheMetrics) ObserveStoreError(string, string) {}
