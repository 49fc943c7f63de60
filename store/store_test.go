package store

import (
	"sync"
	"testing"

	"github.com/Danii44/PRIMEHODDIE/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleWishlist_IsAnInvolution(t *testing.T) {
	s := newTestStore()

	assert.False(t, s.IsInWishlist("p1"))
	assert.True(t, s.ToggleWishlist("p1"))
	assert.True(t, s.IsInWishlist("p1"))
	assert.False(t, s.ToggleWishlist("p1"))
	assert.False(t, s.IsInWishlist("p1"))

	s.ToggleWishlist("p2")
	s.ToggleWishlist("p3")
	s.ToggleWishlist("p2")
	s.ToggleWishlist("p2")
	assert.ElementsMatch(t, []string{"p2", "p3"}, s.Wishlist())
}

func TestToggleWishlist_IgnoresEmptyID(t *testing.T) {
	s := New(nil)
	var changes int
	s.Subscribe(func(Change) { changes++ })

	assert.False(t, s.ToggleWishlist(""))
	assert.Empty(t, s.Wishlist())
	assert.Zero(t, changes)
}

func TestSetUser(t *testing.T) {
	s := newTestStore()
	assert.False(t, s.IsAuthenticated())

	s.SetUser(&models.User{ID: "u1", Email: "a@b.co", Name: "Ana", Role: models.RoleAdmin})
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsAdmin())

	s.SetUser(&models.User{ID: "u1", Email: "a@b.co", Name: "Ana", Role: models.RoleCustomer})
	assert.False(t, s.IsAdmin(), "role changes apply immediately")

	s.SetUser(&models.User{ID: "u2", Role: "superuser"})
	assert.Equal(t, models.RoleCustomer, s.User().Role)

	s.SetUser(nil)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestSubscribe_PublishesPersistedChanges(t *testing.T) {
	s := newTestStore()
	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) { changes = append(changes, c) })

	p := product("p1", "Core Hoodie", "Hoodies", 60)
	s.AddToCart(p, "Black", "M")
	s.ToggleWishlist("p1")
	s.SetUser(&models.User{ID: "u1", Role: models.RoleCustomer})
	s.SetCartOpen(true)

	// no-ops publish nothing
	s.RemoveFromCart("ghost", "", "")
	s.UpdateQuantity("ghost", "", "", 3)
	s.SetCartOpen(true)

	require.Len(t, changes, 4)
	for i, c := range changes {
		assert.Equal(t, uint64(i+1), c.Version)
	}
	assert.Equal(t, KindCart, changes[0].Kind)
	assert.Equal(t, KindWishlist, changes[1].Kind)
	assert.Equal(t, KindUser, changes[2].Kind)
	assert.Equal(t, KindUI, changes[3].Kind)
	assert.False(t, changes[3].Persisted())
	assert.Equal(t, []string{"p1"}, changes[3].State.Wishlist)

	unsubscribe()
	s.ClearCart()
	assert.Len(t, changes, 4)
}

func TestChangeStateIsASnapshot(t *testing.T) {
	s := newTestStore()
	var last Change
	s.Subscribe(func(c Change) { last = c })

	s.AddToCart(product("p1", "A", "Tees", 10), "Black", "M")
	first := last
	s.AddToCart(product("p1", "A", "Tees", 10), "Black", "M")

	assert.Equal(t, 1, first.State.Cart[0].Quantity)
	assert.Equal(t, 2, last.State.Cart[0].Quantity)
}

func TestHydrate(t *testing.T) {
	s := newTestStore()
	published := 0
	s.Subscribe(func(Change) { published++ })

	p := product("p1", "Core Hoodie", "Hoodies", 60)
	s.Hydrate(models.PersistedState{
		Cart: []models.CartItem{
			{Product: p, Quantity: 1, Color: "Black", Size: "M"},
			{Product: p, Quantity: 2, Color: "Black", Size: "M"},
		},
		Wishlist: []string{"p1", "p1"},
		User:     &models.User{ID: "u1", Role: models.RoleCustomer},
	})

	assert.Zero(t, published)
	require.Len(t, s.Cart(), 1)
	assert.Equal(t, 3, s.CartCount())
	assert.Equal(t, []string{"p1"}, s.Wishlist())
	assert.True(t, s.IsAuthenticated())

	s.AddToCart(p, "Black", "M")
	assert.Equal(t, 4, s.CartCount())
}

func TestView(t *testing.T) {
	s := newTestStore()
	s.AddToCart(product("p1", "A", "Tees", 10), "Black", "M")
	s.AddToCart(product("p1", "A", "Tees", 10), "Black", "M")
	s.ToggleWishlist("p9")
	s.SetSelectedSize("M")
	s.SetSelectedColor("Black")

	v := s.View()
	assert.Equal(t, 20.0, v.CartTotal)
	assert.Equal(t, 2, v.CartCount)
	assert.Equal(t, []string{"p9"}, v.Wishlist)
	assert.False(t, v.IsAuthenticated)
	assert.Equal(t, UIState{SelectedSize: "M", SelectedColor: "Black"}, v.UI)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	s := newTestStore()
	p := product("p1", "Core Hoodie", "Hoodies", 60)

	var mu sync.Mutex
	var versions []uint64
	s.Subscribe(func(c Change) {
		mu.Lock()
		versions = append(versions, c.Version)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddToCart(p, "Black", "M")
		}()
	}
	wg.Wait()

	require.Len(t, s.Cart(), 1)
	assert.Equal(t, 50, s.CartCount())
	assert.Equal(t, uint64(50), s.Version())
	assert.Len(t, versions, 50)
	assert.ElementsMatch(t, uniqueVersions(50), versions)
}

func uniqueVersions(n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i + 1)
	}
	return out
}
