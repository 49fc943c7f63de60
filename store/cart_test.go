package store

import (
	"testing"

	"github.com/Danii44/PRIMEHODDIE/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name, category string, price float64) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Image:    "/img/" + id + ".jpg",
		Category: category,
		Colors:   []models.ColorVariant{{Name: "Black", Value: "#111111"}},
		Sizes:    []string{"S", "M", "L"},
		InStock:  true,
	}
}

func newTestStore() *Store {
	return New(NewCatalog(nil, nil))
}

func TestAddToCart_SameKeyMergesIntoOneLine(t *testing.T) {
	s := newTestStore()
	p := product("p1", "Core Hoodie", "Hoodies", 60)

	for i := 0; i < 7; i++ {
		s.AddToCart(p, "Black", "M")
	}

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 7, cart[0].Quantity)
	assert.Equal(t, 7, s.CartCount())
}

func TestAddToCart_VariantsStaySeparate(t *testing.T) {
	s := newTestStore()
	p := product("p1", "Core Hoodie", "Hoodies", 60)

	s.AddToCart(p, "Black", "M")
	s.AddToCart(p, "Black", "M")
	s.AddToCart(p, "Black", "L")

	cart := s.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, models.LineKey{ProductID: "p1", Color: "Black", Size: "M"}, cart[0].Key())
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, models.LineKey{ProductID: "p1", Color: "Black", Size: "L"}, cart[1].Key())
	assert.Equal(t, 1, cart[1].Quantity)
	assert.Equal(t, 3, s.CartCount())
}

func TestRemoveFromCart(t *testing.T) {
	s := newTestStore()
	p := product("p1", "Core Hoodie", "Hoodies", 60)

	s.AddToCart(p, "Black", "M")
	s.RemoveFromCart("p1", "Black", "M")
	assert.Empty(t, s.Cart())

	// unknown lines are ignored
	s.AddToCart(p, "Black", "M")
	s.RemoveFromCart("p1", "Black", "XL")
	s.RemoveFromCart("nope", "Black", "M")
	assert.Len(t, s.Cart(), 1)
}

func TestUpdateQuantity_NeverBelowOne(t *testing.T) {
	s := newTestStore()
	p := product("p1", "Core Hoodie", "Hoodies", 60)
	s.AddToCart(p, "Black", "M")

	for _, q := range []int{0, -1, -100} {
		s.UpdateQuantity("p1", "Black", "M", q)
		assert.Equal(t, 1, s.Cart()[0].Quantity, "quantity %d", q)
	}

	s.UpdateQuantity("p1", "Black", "M", 4)
	assert.Equal(t, 4, s.CartCount())

	s.UpdateQuantity("p1", "Black", "S", 9)
	assert.Equal(t, 4, s.CartCount())
}

func TestClearCart(t *testing.T) {
	s := newTestStore()
	s.AddToCart(product("p1", "A", "Tees", 10), "Black", "M")
	s.AddToCart(product("p2", "B", "Tees", 12), "Black", "M")

	s.ClearCart()

	assert.Empty(t, s.Cart())
	assert.Zero(t, s.CartTotal())
	assert.Zero(t, s.CartCount())
}

func TestCartTotal_UsesPriceAtAddTime(t *testing.T) {
	s := newTestStore()
	p := product("p1", "Core Hoodie", "Hoodies", 60)
	q := product("p2", "Logo Tee", "Tees", 25.5)

	s.AddToCart(p, "Black", "M")
	s.AddToCart(p, "Black", "M")
	s.AddToCart(q, "Black", "S")
	assert.InDelta(t, 145.5, s.CartTotal(), 1e-9)

	// a later catalog price change must not reach lines already in the cart
	p.Price = 999
	p.Sizes[0] = "XXS"
	assert.InDelta(t, 145.5, s.CartTotal(), 1e-9)
	assert.Equal(t, "S", s.Cart()[0].Product.Sizes[0])

	// merging keeps the original snapshot too
	s.AddToCart(p, "Black", "M")
	assert.InDelta(t, 205.5, s.CartTotal(), 1e-9)

	var want float64
	for _, line := range s.Cart() {
		want += line.Product.Price * float64(line.Quantity)
	}
	assert.InDelta(t, want, s.CartTotal(), 1e-9)
}

func TestCartReturnsPrivateCopy(t *testing.T) {
	s := newTestStore()
	s.AddToCart(product("p1", "A", "Tees", 10), "Black", "M")

	cart := s.Cart()
	cart[0].Quantity = 50
	cart[0].Product.Price = 0

	assert.Equal(t, 1, s.CartCount())
	assert.Equal(t, 10.0, s.CartTotal())
}
