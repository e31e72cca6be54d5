package services

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/snapshot"
)

// DefaultRecommendationMaxAge is how long a memoized recommendation list is served.
const DefaultRecommendationMaxAge = 5 * time.Minute

// ScopeBestSellers is the default recommendation scope.
const ScopeBestSellers = "best-sellers"

// RecommendationCache memoizes recommendation lists in process memory, one per scope.
// Nothing survives a restart. Freshness is decided against the injected clock, so
// go-cache keeps records without its own expiry until Invalidate drops them.
type RecommendationCache struct {
	cache  *cache.Cache
	maxAge time.Duration
	now    func() time.Time
}

// NewRecommendationCache creates a memo with maxAge as the default window. now may be nil.
func NewRecommendationCache(maxAge time.Duration, now func() time.Time) *RecommendationCache {
	if maxAge <= 0 {
		maxAge = DefaultRecommendationMaxAge
	}
	if now == nil {
		now = time.Now
	}
	return &RecommendationCache{
		cache:  cache.New(cache.NoExpiration, 10*time.Minute),
		maxAge: maxAge,
		now:    now,
	}
}

// MaxAge returns the default freshness window.
func (r *RecommendationCache) MaxAge() time.Duration { return r.maxAge }

// GetCached returns the list stored for scope when it is younger than maxAge.
// A non-positive maxAge uses the default window.
func (r *RecommendationCache) GetCached(scope string, maxAge time.Duration) ([]catalog.Product, bool) {
	if maxAge <= 0 {
		maxAge = r.maxAge
	}
	v, ok := r.cache.Get(scopeKey(scope))
	if !ok {
		return nil, false
	}
	entry, ok := v.(snapshot.Entry[[]catalog.Product])
	if !ok || !snapshot.IsFresh(entry.WrittenAtMillis, maxAge, r.now()) {
		return nil, false
	}
	return entry.Payload, true
}

// Set replaces the list of scope and restarts its window.
func (r *RecommendationCache) Set(scope string, items []catalog.Product) {
	r.cache.Set(scopeKey(scope), snapshot.NewEntry(items, r.now()), cache.NoExpiration)
}

func (r *RecommendationCache) Invalidate(scope string) {
	r.cache.Delete(scopeKey(scope))
}

func (r *RecommendationCache) InvalidateAll() {
	r.cache.Flush()
}

func scopeKey(scope string) string {
	if scope == "" {
		return ScopeBestSellers
	}
	return scope
}
