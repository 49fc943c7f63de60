package store

import "github.com/Danii44/PRIMEHODDIE/models"

// SetUser replaces the identity slot. A nil user signs the shopper out.
// An unknown role is stored as customer.
func (s *Store) SetUser(user *models.User) {
	user = user.Clone()
	if user != nil && !user.Role.Valid() {
		user.Role = models.RoleCustomer
	}
	s.commit(KindUser, func() bool {
		s.user = user
		return true
	})
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// UI flags are published to subscribers but never persisted.

func (s *Store) SetCartOpen(open bool) {
	s.commit(KindUI, func() bool {
		if s.ui.CartOpen == open {
			return false
		}
		s.ui.CartOpen = open
		return true
	})
}

func (s *Store) SetSelectedSize(size string) {
	s.commit(KindUI, func() bool {
		if s.ui.SelectedSize == size {
			return false
		}
		s.ui.SelectedSize = size
		return true
	})
}

func (s *Store) SetSelectedColor(color string) {
	s.commit(KindUI, func() bool {
		if s.ui.SelectedColor == color {
			return false
		}
		s.ui.SelectedColor = color
		return true
	})
}

func (s *Store) UI() UIState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui
}
