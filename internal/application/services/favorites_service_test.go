package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/cellarhouse/storefront-cache/internal/application/services"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/catalog"
	"github.com/cellarhouse/storefront-cache/internal/core/domain/favorite"
	"github.com/cellarhouse/storefront-cache/internal/mocks"
)

func newFavorites(kv *mocks.KVStoreMock) *impl.FavoritesStore {
	return impl.NewFavoritesStore(kv, impl.KeyFavorites, nil, &impl.FavoritesConfig{Now: mocks.NewClock(epoch).Now}, quietLogger())
}

func bourbon(t *testing.T) catalog.Product {
	return products(t, `[{"id":"p1","name":"Kentucky Bourbon","slug":"kentucky-bourbon",
		"priceData":{"formatted":{"price":"$40.00","discountedPrice":"$40.00"}},
		"stock":{"inStock":true,"quantity":6}}]`)[0]
}

func TestFavorites_EmptyByDefault(t *testing.T) {
	s := newFavorites(mocks.NewKVStoreMock())
	items := s.GetAll(context.Background())
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 0, s.Count(context.Background()))
}

func TestFavorites_AddTwiceKeepsOne(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	s := newFavorites(kv)
	var notified [][]favorite.Item
	s.Subscribe(func(items []favorite.Item) { notified = append(notified, items) })

	_, err := s.Add(ctx, bourbon(t))
	require.NoError(t, err)
	items, err := s.Add(ctx, bourbon(t))
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 1, s.Count(ctx))
	assert.True(t, s.Contains(ctx, "p1"))
	assert.Len(t, notified, 1, "a no-op add must not broadcast")
	assert.Len(t, kv.Calls("set"), 1)
}

func TestFavorites_DiscountEqualToPriceIsSuppressed(t *testing.T) {
	s := newFavorites(mocks.NewKVStoreMock())
	items, err := s.Add(context.Background(), bourbon(t))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "$40.00", items[0].Price)
	assert.Equal(t, "", items[0].DiscountedPrice)
	assert.Equal(t, "2026-10-01T08:00:00.000Z", items[0].AddedAt)
}

func TestFavorites_ToggleTwiceRestoresAbsence(t *testing.T) {
	ctx := context.Background()
	s := newFavorites(mocks.NewKVStoreMock())

	after, err := s.Toggle(ctx, bourbon(t))
	require.NoError(t, err)
	assert.Len(t, after, 1)
	assert.True(t, s.Contains(ctx, "p1"))

	after, err = s.Toggle(ctx, bourbon(t))
	require.NoError(t, err)
	assert.Empty(t, after)
	assert.False(t, s.Contains(ctx, "p1"))
}

func TestFavorites_BroadcastOnlyAfterConfirmedWrite(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	kv.SetFn = func(ctx context.Context, key, value string) error { return errors.New("storage full") }
	s := newFavorites(kv)
	calls := 0
	s.Subscribe(func([]favorite.Item) { calls++ })

	items, err := s.Add(ctx, bourbon(t))
	require.Error(t, err)
	assert.Empty(t, items)

	_, err = s.Toggle(ctx, bourbon(t))
	require.Error(t, err)
	_, err = s.Remove(ctx, "p1")
	require.Error(t, err)

	assert.Equal(t, 0, calls)
	assert.False(t, s.Contains(ctx, "p1"))
}

func TestFavorites_WriteHappensBeforeNotify(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	s := newFavorites(kv)
	var persistedAtNotify bool
	s.Subscribe(func([]favorite.Item) {
		_, persistedAtNotify, _ = kv.Backing.Get(ctx, impl.KeyFavorites)
	})

	_, err := s.Add(ctx, bourbon(t))
	require.NoError(t, err)
	assert.True(t, persistedAtNotify)
}

func TestFavorites_SubscriberMutationIsDeliveredAfterCurrentList(t *testing.T) {
	ctx := context.Background()
	s := newFavorites(mocks.NewKVStoreMock())
	var counts []int
	s.Subscribe(func(items []favorite.Item) {
		counts = append(counts, len(items))
		if len(items) == 1 {
			_, err := s.Remove(ctx, "p1")
			assert.NoError(t, err)
		}
	})

	_, err := s.Add(ctx, bourbon(t))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, counts)
	assert.Equal(t, 0, s.Count(ctx))
}

func TestFavorites_ConcurrentTogglesEndOnStoredList(t *testing.T) {
	ctx := context.Background()
	for round := 0; round < 20; round++ {
		s := newFavorites(mocks.NewKVStoreMock())
		var (
			mu   sync.Mutex
			last []favorite.Item
		)
		s.Subscribe(func(items []favorite.Item) {
			mu.Lock()
			last = items
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := s.Toggle(ctx, catalog.Product{"id": id})
				assert.NoError(t, err)
			}(fmt.Sprintf("p%d", i))
		}
		wg.Wait()

		stored := s.GetAll(ctx)
		require.Len(t, stored, 8)
		mu.Lock()
		assert.Equal(t, stored, last, "round %d", round)
		mu.Unlock()
	}
}

func TestFavorites_SubscribersInRegistrationOrderAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	s := newFavorites(mocks.NewKVStoreMock())
	var order []string
	unsubA := s.Subscribe(func([]favorite.Item) { order = append(order, "a") })
	s.Subscribe(func([]favorite.Item) { order = append(order, "b") })

	_, err := s.Add(ctx, bourbon(t))
	require.NoError(t, err)
	unsubA()
	unsubA()
	_, err = s.Remove(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "b"}, order)
}

func TestFavorites_ClearAll(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	s := newFavorites(kv)
	_, err := s.Add(ctx, bourbon(t))
	require.NoError(t, err)
	var last []favorite.Item
	s.Subscribe(func(items []favorite.Item) { last = items })

	require.NoError(t, s.ClearAll(ctx))

	assert.NotNil(t, last)
	assert.Empty(t, last)
	assert.Equal(t, []string{impl.KeyFavorites}, kv.Calls("remove"))
	assert.Equal(t, 0, s.Count(ctx))
}

func TestFavorites_ClearAllFailureDoesNotBroadcast(t *testing.T) {
	kv := mocks.NewKVStoreMock()
	kv.RemoveFn = func(ctx context.Context, key string) error { return errors.New("io") }
	s := newFavorites(kv)
	calls := 0
	s.Subscribe(func([]favorite.Item) { calls++ })
	assert.Error(t, s.ClearAll(context.Background()))
	assert.Equal(t, 0, calls)
}

func TestFavorites_ReadFailureIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	require.NoError(t, kv.Backing.Set(ctx, impl.KeyFavorites, "not-json"))
	s := newFavorites(kv)
	assert.Empty(t, s.GetAll(ctx))

	kv.GetFn = func(ctx context.Context, key string) (string, bool, error) { return "", false, errors.New("offline") }
	assert.Empty(t, s.GetAll(ctx))
	assert.False(t, s.Contains(ctx, "p1"))
}

func TestFavorites_ProductWithoutIDIsIgnored(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	s := newFavorites(kv)
	items, err := s.Add(ctx, catalog.Product{"name": "mystery"})
	require.NoError(t, err)
	assert.Empty(t, items)
	items, err = s.Toggle(ctx, catalog.Product{"name": "mystery"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, kv.Calls("set"))
}

func TestFavoritesDirectory_NamespacesAndSharesStores(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewKVStoreMock()
	dir := impl.NewFavoritesDirectory(kv, nil, quietLogger())

	alice := dir.Store("alice")
	assert.Same(t, alice, dir.Store("alice"))
	assert.Equal(t, "favorites:alice", alice.Key())
	assert.Equal(t, impl.KeyFavorites, dir.Store("").Key())

	seen := 0
	dir.ForMember("alice").Subscribe(func([]favorite.Item) { seen++ })
	_, err := alice.Add(ctx, bourbon(t))
	require.NoError(t, err)

	assert.Equal(t, 1, seen)
	assert.Equal(t, 0, dir.ForMember("bob").Count(ctx))
	assert.Equal(t, 1, dir.ForMember("alice").Count(ctx))
}
