package sessions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Danii44/PRIMEHODDIE/models"
	"github.com/Danii44/PRIMEHODDIE/persistence"
	"github.com/Danii44/PRIMEHODDIE/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

// flakyKV wraps MemoryKV and fails reads or writes on demand.
type flakyKV struct {
	*persistence.MemoryKV
	mu      sync.Mutex
	failGet bool
	failSet bool
}

func (f *flakyKV) set(failGet, failSet bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet, f.failSet = failGet, failSet
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, errors.New("read timeout")
	}
	return f.MemoryKV.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return errors.New("write timeout")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func newTestRegistry(kv persistence.KV) (*Registry, *clock) {
	c := &clock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRegistry(store.NewCatalog(nil, nil), kv, Config{IdleTTL: 10 * time.Minute}, nil)
	r.now = c.now
	return r, c
}

func get(t *testing.T, r *Registry, id string) *store.Store {
	t.Helper()
	s, err := r.Get(context.Background(), id)
	require.NoError(t, err)
	return s
}

func hoodie() models.Product {
	return models.Product{ID: "p1", Name: "Hoodie", Price: 40}
}

func TestRegistry_SameSessionSameStore(t *testing.T) {
	r, _ := newTestRegistry(persistence.NewMemoryKV())

	a := get(t, r, "s1")
	assert.Same(t, a, get(t, r, "s1"))
	assert.NotSame(t, a, get(t, r, "s2"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_StoresShareCatalog(t *testing.T) {
	r, _ := newTestRegistry(persistence.NewMemoryKV())

	assert.Same(t, get(t, r, "s1").Catalog(), get(t, r, "s2").Catalog())
}

func TestRegistry_SweepEvictsIdleAndRehydrates(t *testing.T) {
	kv := persistence.NewMemoryKV()
	r, c := newTestRegistry(kv)
	ctx := context.Background()

	s := get(t, r, "s1")
	s.AddToCart(hoodie(), "Black", "M")
	get(t, r, "s2")

	c.t = c.t.Add(5 * time.Minute)
	get(t, r, "s2")
	c.t = c.t.Add(6 * time.Minute)

	assert.Equal(t, 1, r.Sweep(ctx))
	assert.Equal(t, 1, r.Len())

	raw, err := kv.Get(ctx, DefaultKeyPrefix+"s1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"p1"`)

	again := get(t, r, "s1")
	assert.NotSame(t, s, again)
	assert.Equal(t, 1, again.CartCount())
}

func TestRegistry_EvictedStoreNoLongerWrites(t *testing.T) {
	kv := persistence.NewMemoryKV()
	r, c := newTestRegistry(kv)
	ctx := context.Background()

	s := get(t, r, "s1")
	c.t = c.t.Add(time.Hour)
	r.Sweep(ctx)

	s.ToggleWishlist("late")

	_, err := kv.Get(ctx, DefaultKeyPrefix+"s1")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestRegistry_ReadFailureIsNotCachedAndKeepsRecord(t *testing.T) {
	kv := &flakyKV{MemoryKV: persistence.NewMemoryKV()}
	r, _ := newTestRegistry(kv)
	ctx := context.Background()

	saved := models.EmptyState()
	saved.Cart = []models.CartItem{{Product: hoodie(), Quantity: 3, Color: "Black", Size: "M"}}
	saved.Wishlist = []string{"w1"}
	require.NoError(t, persistence.NewGateway(kv, DefaultKeyPrefix+"s1").Save(ctx, saved))

	kv.set(true, false)
	s, err := r.Get(ctx, "s1")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Equal(t, 0, r.Len())

	kv.set(false, false)
	s = get(t, r, "s1")
	assert.Equal(t, 3, s.CartCount())
	assert.True(t, s.IsInWishlist("w1"))

	s.AddToCart(models.Product{ID: "p2", Name: "Tee", Price: 20}, "White", "S")
	got, err := persistence.NewGateway(kv, DefaultKeyPrefix+"s1").Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Cart, 2)
	assert.Equal(t, []string{"w1"}, got.Wishlist)
}

func TestRegistry_SweepKeepsStoreWithUnsavedState(t *testing.T) {
	kv := &flakyKV{MemoryKV: persistence.NewMemoryKV()}
	r, c := newTestRegistry(kv)
	ctx := context.Background()

	s := get(t, r, "s1")
	kv.set(false, true)
	s.AddToCart(hoodie(), "Black", "M")

	c.t = c.t.Add(time.Hour)
	assert.Equal(t, 0, r.Sweep(ctx))
	assert.Equal(t, 1, r.Len())
	assert.Same(t, s, get(t, r, "s1"))

	kv.set(false, false)
	c.t = c.t.Add(time.Hour)
	assert.Equal(t, 1, r.Sweep(ctx))

	again := get(t, r, "s1")
	assert.NotSame(t, s, again)
	assert.Equal(t, 1, again.CartCount())
}

func TestRegistry_ConcurrentFirstUseYieldsOneStore(t *testing.T) {
	r, _ := newTestRegistry(persistence.NewMemoryKV())

	var wg sync.WaitGroup
	got := make([]*store.Store, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = r.Get(context.Background(), "s1")
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
	assert.Equal(t, 1, r.Len())
}
