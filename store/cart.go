package store

import "github.com/Danii44/PRIMEHODDIE/models"

// AddToCart merges into the line with the same product, color and size, or
// appends a new line holding a copy of product. Stock is not checked here.
func (s *Store) AddToCart(product models.Product, color, size string) {
	key := models.LineKey{ProductID: product.ID, Color: color, Size: size}
	s.commit(KindCart, func() bool {
		if i := s.lineIndexLocked(key); i >= 0 {
			s.cart[i].Quantity++
			return true
		}
		s.cart = append(s.cart, models.CartItem{
			Product:  product.Clone(),
			Quantity: 1,
			Color:    color,
			Size:     size,
		})
		return true
	})
}

// RemoveFromCart is a no-op for an unknown line.
func (s *Store) RemoveFromCart(productID, color, size string) {
	key := models.LineKey{ProductID: productID, Color: color, Size: size}
	s.commit(KindCart, func() bool {
		i := s.lineIndexLocked(key)
		if i < 0 {
			return false
		}
		s.cart = append(s.cart[:i:i], s.cart[i+1:]...)
		return true
	})
}

// UpdateQuantity never drives a line below one; use RemoveFromCart to drop it.
func (s *Store) UpdateQuantity(productID, color, size string, quantity int) {
	key := models.LineKey{ProductID: productID, Color: color, Size: size}
	quantity = max(1, quantity)
	s.commit(KindCart, func() bool {
		i := s.lineIndexLocked(key)
		if i < 0 || s.cart[i].Quantity == quantity {
			return false
		}
		s.cart[i].Quantity = quantity
		return true
	})
}

func (s *Store) ClearCart() {
	s.commit(KindCart, func() bool {
		s.cart = []models.CartItem{}
		return true
	})
}

func (s *Store) Cart() []models.CartItem {
	return s.Snapshot().Cart
}

// CartTotal prices every line with the snapshot taken when it was added.
func (s *Store) CartTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cartTotal(s.cart)
}

// CartCount sums quantities, not lines.
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cartCount(s.cart)
}

func (s *Store) lineIndexLocked(key models.LineKey) int {
	for i, item := range s.cart {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func cartTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

func cartCount(items []models.CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
