package ports

import "context"

// KVStore is the durable, string-keyed store the cache layer persists to.
// Get reports ok=false for an absent key; Remove and MultiRemove treat absence as success.
// MultiRemove must apply all deletions as one operation where the backend allows it.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	MultiRemove(ctx context.Context, keys []string) error
}
