package store

import "slices"

// ToggleWishlist flips membership of productID and returns the new membership.
// An empty id is ignored.
func (s *Store) ToggleWishlist(productID string) bool {
	if productID == "" {
		return false
	}
	var member bool
	s.commit(KindWishlist, func() bool {
		if i := slices.Index(s.wishlist, productID); i >= 0 {
			s.wishlist = slices.Delete(slices.Clone(s.wishlist), i, i+1)
			member = false
			return true
		}
		s.wishlist = append(s.wishlist, productID)
		member = true
		return true
	})
	return member
}

func (s *Store) IsInWishlist(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.wishlist, productID)
}

func (s *Store) Wishlist() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.wishlist)
}
