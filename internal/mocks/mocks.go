// Package mocks holds function-field fakes of the ports for tests.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/memory"
)

// KVStoreMock delegates to an in-memory store unless a Fn override is set.
type KVStoreMock struct {
	GetFn         func(ctx context.Context, key string) (string, bool, error)
	SetFn         func(ctx context.Context, key, value string) error
	RemoveFn      func(ctx context.Context, key string) error
	MultiRemoveFn func(ctx context.Context, keys []string) error

	Backing *memory.KVStore

	mu    sync.Mutex
	calls map[string][]string
}

var _ ports.KVStore = (*KVStoreMock)(nil)

func NewKVStoreMock() *KVStoreMock {
	return &KVStoreMock{Backing: memory.NewKVStore(), calls: make(map[string][]string)}
}

func (m *KVStoreMock) record(op, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string][]string)
	}
	m.calls[op] = append(m.calls[op], key)
}

// Calls returns the keys passed to op ("get", "set", "remove", "multiRemove"), in call order.
func (m *KVStoreMock) Calls(op string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls[op]...)
}

func (m *KVStoreMock) backing() *memory.KVStore {
	if m.Backing == nil {
		m.Backing = memory.NewKVStore()
	}
	return m.Backing
}

func (m *KVStoreMock) Get(ctx context.Context, key string) (string, bool, error) {
	m.record("get", key)
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return m.backing().Get(ctx, key)
}

func (m *KVStoreMock) Set(ctx context.Context, key, value string) error {
	m.record("set", key)
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value)
	}
	return m.backing().Set(ctx, key, value)
}

func (m *KVStoreMock) Remove(ctx context.Context, key string) error {
	m.record("remove", key)
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, key)
	}
	return m.backing().Remove(ctx, key)
}

func (m *KVStoreMock) MultiRemove(ctx context.Context, keys []string) error {
	for _, k := range keys {
		m.record("multiRemove", k)
	}
	if m.MultiRemoveFn != nil {
		return m.MultiRemoveFn(ctx, keys)
	}
	return m.backing().MultiRemove(ctx, keys)
}

// CatalogSourceMock is a lightweight mock for CatalogSource
type CatalogSourceMock struct {
	ListProductsFn    func(ctx context.Context) ([]catalog.Product, error)
	ListCollectionsFn func(ctx context.Context) ([]catalog.Collection, error)
	ListInventoryFn   func(ctx context.Context) ([]catalog.InventoryLine, error)
	BestSellersFn     func(ctx context.Context, limit int) ([]catalog.Product, error)

	mu    sync.Mutex
	calls map[string]int
}

var _ ports.CatalogSource = (*CatalogSourceMock)(nil)

func (m *CatalogSourceMock) hit(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// CallCount returns how often the named method ran.
func (m *CatalogSourceMock) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *CatalogSourceMock) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	m.hit("ListProducts")
	if m.ListProductsFn != nil {
		return m.ListProductsFn(ctx)
	}
	return nil, nil
}

func (m *CatalogSourceMock) ListCollections(ctx context.Context) ([]catalog.Collection, error) {
	m.hit("ListCollections")
	if m.ListCollectionsFn != nil {
		return m.ListCollectionsFn(ctx)
	}
	return nil, nil
}

func (m *CatalogSourceMock) ListInventory(ctx context.Context) ([]catalog.InventoryLine, error) {
	m.hit("ListInventory")
	if m.ListInventoryFn != nil {
		return m.ListInventoryFn(ctx)
	}
	return nil, nil
}

func (m *CatalogSourceMock) BestSellers(ctx context.Context, limit int) ([]catalog.Product, error) {
	m.hit("BestSellers")
	if m.BestSellersFn != nil {
		return m.BestSellersFn(ctx, limit)
	}
	return nil, nil
}

// CacheMetricsMock counts observations by "cache/status" and "cache/op".
type CacheMetricsMock struct {
	mu       sync.Mutex
	Lookups  map[string]int
	Failures map[string]int
}

func (m *CacheMetricsMock) ObserveLookup(cache, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Lookups == nil {
		m.Lookups = make(map[string]int)
	}
	m.Lookups[cache+"/"+status]++
}

func (m *CacheMetricsMock) ObserveStoreError(cache, op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Failures == nil {
		m.Failures = make(map[string]int)
	}
	m.Failures[cache+"/"+op]++
}

// Clock is a settable time source for freshness tests.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(start time.Time) *Clock { return &Clock{t: start} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
