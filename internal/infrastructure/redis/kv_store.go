package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// KVStore implements ports.KVStore on Redis. Entries are written without expiry;
// freshness is decided by the cache layer, not by Redis TTLs.
type KVStore struct {
	r redis.Cmdable
	// optional key prefix to namespace entries
	prefix string
}

var _ ports.KVStore = (*KVStore)(nil)

// NewKVStore creates a Redis-backed durable store.
func NewKVStore(r redis.Cmdable, prefix string) *KVStore {
	return &KVStore{r: r, prefix: prefix}
}

func (s *KVStore) namespaced(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get implements KVStore.Get.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.r.Get(ctx, s.namespaced(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set implements KVStore.Set.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.r.Set(ctx, s.namespaced(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove implements KVStore.Remove.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	if err := s.r.Del(ctx, s.namespaced(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// MultiRemove deletes all keys with a single DEL.
func (s *KVStore) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	ns := make([]string, len(keys))
	for i, k := range keys {
		ns[i] = s.namespaced(k)
	}
	if err := s.r.Del(ctx, ns...).Err(); err != nil {
		return fmt.Errorf("redis del %d keys: %w", len(keys), err)
	}
	return nil
}
