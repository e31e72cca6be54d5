package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/recent"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// KeyRecentlyViewed is the storage key prefix of recently-viewed lists.
const KeyRecentlyViewed = "recentlyViewed"

// RecentlyViewedConfig groups the optional settings of RecentlyViewed.
type RecentlyViewedConfig struct {
	Limit   int
	Now     func() time.Time
	Metrics ports.CacheMetrics
}

// RecentlyViewed is a bounded most-recent-first list persisted under one key.
type RecentlyViewed struct {
	kv      ports.KVStore
	key     string
	limit   int
	now     func() time.Time
	metrics ports.CacheMetrics
	logger  *logrus.Logger

	mu sync.Mutex
}

var _ ports.RecentlyViewedService = (*RecentlyViewed)(nil)

func NewRecentlyViewed(kv ports.KVStore, key string, cfg *RecentlyViewedConfig, logger *logrus.Logger) *RecentlyViewed {
	if key == "" {
		key = KeyRecentlyViewed
	}
	r := &RecentlyViewed{kv: kv, key: key, limit: recent.DefaultLimit, now: time.Now, metrics: ports.NopCacheMetrics{}, logger: logger}
	if cfg != nil {
		if cfg.Limit > 0 {
			r.limit = cfg.Limit
		}
		if cfg.Now != nil {
			r.now = cfg.Now
		}
		if cfg.Metrics != nil {
			r.metrics = cfg.Metrics
		}
	}
	return r
}

func (r *RecentlyViewed) Key() string { return r.key }

func (r *RecentlyViewed) Limit() int { return r.limit }

// GetAll returns the stored entries, most recent first. Read failures yield an empty list.
func (r *RecentlyViewed) GetAll(ctx context.Context) []recent.Entry {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		r.metrics.ObserveStoreError("recently_viewed", "get")
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"key": r.key}).WithError(err).Warn("failed to read recently viewed")
		}
		return []recent.Entry{}
	}
	if !ok {
		return []recent.Entry{}
	}
	var entries []recent.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		r.metrics.ObserveStoreError("recently_viewed", "decode")
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"key": r.key}).WithError(err).Warn("discarding unreadable recently viewed list")
		}
		return []recent.Entry{}
	}
	if entries == nil {
		entries = []recent.Entry{}
	}
	return entries
}

// AddView moves p to the front, dropping its older entry and anything past the limit.
// A product without an id is ignored.
func (r *RecentlyViewed) AddView(ctx context.Context, p catalog.Product) ([]recent.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.GetAll(ctx)
	if p.ID() == "" {
		return entries, nil
	}
	next := recent.Prepend(entries, recent.FromProduct(p, r.now()), r.limit)
	b, err := json.Marshal(next)
	if err != nil {
		return entries, fmt.Errorf("failed to encode recently viewed: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(b)); err != nil {
		r.metrics.ObserveStoreError("recently_viewed", "set")
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"key": r.key, "product_id": p.ID()}).WithError(err).Error("failed to save recently viewed")
		}
		return entries, fmt.Errorf("failed to save recently viewed: %w", err)
	}
	return next, nil
}

func (r *RecentlyViewed) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.kv.Remove(ctx, r.key); err != nil {
		r.metrics.ObserveStoreError("recently_viewed", "remove")
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"key": r.key}).WithError(err).Error("failed to clear recently viewed")
		}
		return fmt.Errorf("failed to clear recently viewed: %w", err)
	}
	return nil
}

// RecentlyViewedDirectory hands out one list per member.
type RecentlyViewedDirectory struct {
	kv     ports.KVStore
	cfg    *RecentlyViewedConfig
	logger *logrus.Logger

	mu    sync.Mutex
	lists map[string]*RecentlyViewed
}

var _ ports.RecentlyViewedResolver = (*RecentlyViewedDirectory)(nil)

func NewRecentlyViewedDirectory(kv ports.KVStore, cfg *RecentlyViewedConfig, logger *logrus.Logger) *RecentlyViewedDirectory {
	return &RecentlyViewedDirectory{kv: kv, cfg: cfg, logger: logger, lists: make(map[string]*RecentlyViewed)}
}

func (d *RecentlyViewedDirectory) ForMember(memberID string) ports.RecentlyViewedService {
	return d.List(memberID)
}

// List is ForMember with the concrete type.
func (d *RecentlyViewedDirectory) List(memberID string) *RecentlyViewed {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l, ok := d.lists[memberID]; ok {
		return l
	}
	l := NewRecentlyViewed(d.kv, MemberKey(KeyRecentlyViewed, memberID), d.cfg, d.logger)
	d.lists[memberID] = l
	return l
}
