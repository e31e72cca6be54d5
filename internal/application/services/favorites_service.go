package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/favorite"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// KeyFavorites is the storage key of the device wishlist. Member wishlists append ":<member id>".
const KeyFavorites = "favorites"

// FavoritesConfig groups the optional settings of FavoritesStore.
type FavoritesConfig struct {
	Now     func() time.Time
	Metrics ports.CacheMetrics
}

// FavoritesStore is a durable set of favorite items keyed by product id.
//
// Every change is written to the KVStore first; subscribers are told only after the
// write succeeded, in the order the writes happened, so the last list a subscriber sees
// is the stored one. A mutation racing an in-flight delivery may return before its own
// broadcast goes out. Mutations are serialised inside one process; concurrent writers in
// other processes still race and the last write wins.
type FavoritesStore struct {
	kv      ports.KVStore
	key     string
	hub     *Broadcaster[[]favorite.Item]
	now     func() time.Time
	metrics ports.CacheMetrics
	logger  *logrus.Logger

	mu sync.Mutex

	// guards pending and delivering
	qmu        sync.Mutex
	pending    [][]favorite.Item
	delivering bool
}

var _ ports.FavoritesService = (*FavoritesStore)(nil)

// NewFavoritesStore creates a store persisting under key. hub may be shared with other
// views of the same key; nil gets a private broadcaster.
func NewFavoritesStore(kv ports.KVStore, key string, hub *Broadcaster[[]favorite.Item], cfg *FavoritesConfig, logger *logrus.Logger) *FavoritesStore {
	if key == "" {
		key = KeyFavorites
	}
	if hub == nil {
		hub = NewBroadcaster[[]favorite.Item]()
	}
	s := &FavoritesStore{kv: kv, key: key, hub: hub, now: time.Now, metrics: ports.NopCacheMetrics{}, logger: logger}
	if cfg != nil {
		if cfg.Now != nil {
			s.now = cfg.Now
		}
		if cfg.Metrics != nil {
			s.metrics = cfg.Metrics
		}
	}
	return s
}

// Key returns the storage key.
func (s *FavoritesStore) Key() string { return s.key }

// GetAll returns the saved items, or an empty list when nothing can be read.
func (s *FavoritesStore) GetAll(ctx context.Context) []favorite.Item {
	return s.load(ctx)
}

func (s *FavoritesStore) Contains(ctx context.Context, id string) bool {
	return favorite.IndexOf(s.load(ctx), id) >= 0
}

func (s *FavoritesStore) Count(ctx context.Context) int {
	return len(s.load(ctx))
}

// Add saves p unless an item with its id is already present.
// On a failed write the previous list is returned with the error and nobody is notified.
func (s *FavoritesStore) Add(ctx context.Context, p catalog.Product) ([]favorite.Item, error) {
	id := p.ID()
	s.mu.Lock()
	items := s.load(ctx)
	if id == "" || favorite.IndexOf(items, id) >= 0 {
		s.mu.Unlock()
		return items, nil
	}
	next := append(append(make([]favorite.Item, 0, len(items)+1), items...), favorite.FromProduct(p, s.now()))
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return items, err
	}
	s.enqueue(next)
	s.mu.Unlock()

	s.flush()
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"key": s.key, "product_id": id}).Debug("favorite added")
	}
	return next, nil
}

// Remove drops the item with id, persists and notifies, whether or not it was present.
func (s *FavoritesStore) Remove(ctx context.Context, id string) ([]favorite.Item, error) {
	s.mu.Lock()
	items := s.load(ctx)
	next := favorite.Without(items, id)
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return items, err
	}
	s.enqueue(next)
	s.mu.Unlock()

	s.flush()
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"key": s.key, "product_id": id}).Debug("favorite removed")
	}
	return next, nil
}

// Toggle removes p when present and adds it otherwise, returning the resulting list.
func (s *FavoritesStore) Toggle(ctx context.Context, p catalog.Product) ([]favorite.Item, error) {
	id := p.ID()
	if id == "" {
		return s.load(ctx), nil
	}
	s.mu.Lock()
	items := s.load(ctx)
	var next []favorite.Item
	if favorite.IndexOf(items, id) >= 0 {
		next = favorite.Without(items, id)
	} else {
		next = append(append(make([]favorite.Item, 0, len(items)+1), items...), favorite.FromProduct(p, s.now()))
	}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return items, err
	}
	s.enqueue(next)
	s.mu.Unlock()

	s.flush()
	return next, nil
}

// ClearAll deletes the wishlist and notifies subscribers with an empty list.
func (s *FavoritesStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	err := s.kv.Remove(ctx, s.key)
	if err == nil {
		s.enqueue([]favorite.Item{})
	}
	s.mu.Unlock()
	if err != nil {
		s.metrics.ObserveStoreError("favorites", "remove")
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": s.key}).WithError(err).Error("failed to clear favorites")
		}
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	s.flush()
	return nil
}

// Subscribe registers fn for every confirmed change.
func (s *FavoritesStore) Subscribe(fn func([]favorite.Item)) func() {
	return s.hub.Subscribe(fn)
}

// enqueue queues a confirmed list for delivery. Callers hold s.mu, so the queue is in write order.
func (s *FavoritesStore) enqueue(items []favorite.Item) {
	s.qmu.Lock()
	s.pending = append(s.pending, append([]favorite.Item(nil), items...))
	s.qmu.Unlock()
}

// flush delivers queued lists in write order. One goroutine delivers at a time; lists
// queued meanwhile, including by a subscriber mutating the store, go out in the same loop.
func (s *FavoritesStore) flush() {
	s.qmu.Lock()
	if s.delivering {
		s.qmu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		items := s.pending[0]
		s.pending = s.pending[1:]
		s.qmu.Unlock()
		s.hub.Publish(items)
		s.qmu.Lock()
	}
	s.delivering = false
	s.qmu.Unlock()
}

func (s *FavoritesStore) load(ctx context.Context) []favorite.Item {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.metrics.ObserveStoreError("favorites", "get")
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": s.key}).WithError(err).Warn("failed to read favorites")
		}
		return []favorite.Item{}
	}
	if !ok {
		return []favorite.Item{}
	}
	var items []favorite.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.metrics.ObserveStoreError("favorites", "decode")
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": s.key}).WithError(err).Warn("discarding unreadable favorites")
		}
		return []favorite.Item{}
	}
	if items == nil {
		items = []favorite.Item{}
	}
	return items
}

func (s *FavoritesStore) persist(ctx context.Context, items []favorite.Item) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		s.metrics.ObserveStoreError("favorites", "set")
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": s.key, "count": len(items)}).WithError(err).Error("failed to save favorites")
		}
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

// FavoritesDirectory hands out one FavoritesStore per member so that every view of a
// member's wishlist shares the same subscribers.
type FavoritesDirectory struct {
	kv     ports.KVStore
	cfg    *FavoritesConfig
	logger *logrus.Logger

	mu     sync.Mutex
	stores map[string]*FavoritesStore
}

var _ ports.FavoritesResolver = (*FavoritesDirectory)(nil)

func NewFavoritesDirectory(kv ports.KVStore, cfg *FavoritesConfig, logger *logrus.Logger) *FavoritesDirectory {
	return &FavoritesDirectory{kv: kv, cfg: cfg, logger: logger, stores: make(map[string]*FavoritesStore)}
}

// ForMember returns the member's wishlist; "" is the device wishlist.
func (d *FavoritesDirectory) ForMember(memberID string) ports.FavoritesService {
	return d.Store(memberID)
}

// Store is ForMember with the concrete type.
func (d *FavoritesDirectory) Store(memberID string) *FavoritesStore {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.stores[memberID]; ok {
		return s
	}
	s := NewFavoritesStore(d.kv, MemberKey(KeyFavorites, memberID), nil, d.cfg, d.logger)
	d.stores[memberID] = s
	return s
}

// MemberKey namespaces base by member id.
func MemberKey(base, memberID string) string {
	if memberID == "" {
		return base
	}
	return base + ":" + memberID
}
