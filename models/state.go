package models

// PersistedState is the subset of the store that survives a restart.
// The catalog and any UI flag are deliberately absent.
type PersistedState struct {
	Cart     []CartItem `json:"cart"`
	Wishlist []string   `json:"wishlist"`
	User     *User      `json:"user"`
}

func EmptyState() PersistedState {
	return PersistedState{Cart: []CartItem{}, Wishlist: []string{}}
}

// Clone deep-copies the state, product snapshots included.
func (s PersistedState) Clone() PersistedState {
	out := PersistedState{
		Cart:     make([]CartItem, len(s.Cart)),
		Wishlist: make([]string, len(s.Wishlist)),
		User:     s.User.Clone(),
	}
	for i, item := range s.Cart {
		out.Cart[i] = item.Clone()
	}
	copy(out.Wishlist, s.Wishlist)
	return out
}

// NormalizeState repairs a state that came from outside the store so that the
// ledger invariants hold again: unique line keys, quantities of at least one
// and a duplicate-free wishlist. Lines and users without an id are kept.
func NormalizeState(s PersistedState) PersistedState {
	out := EmptyState()

	index := make(map[LineKey]int, len(s.Cart))
	for _, item := range s.Cart {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if i, ok := index[item.Key()]; ok {
			out.Cart[i].Quantity += item.Quantity
			continue
		}
		index[item.Key()] = len(out.Cart)
		out.Cart = append(out.Cart, item.Clone())
	}

	seen := make(map[string]struct{}, len(s.Wishlist))
	for _, id := range s.Wishlist {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out.Wishlist = append(out.Wishlist, id)
	}

	if s.User != nil {
		out.User = s.User.Clone()
		if !out.User.Role.Valid() {
			out.User.Role = RoleCustomer
		}
	}
	return out
}
