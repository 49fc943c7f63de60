// Package store holds the storefront state of one shopper: the cart ledger,
// the wishlist, the identity slot and a few transient UI flags, on top of a
// catalog cache that may be shared between stores.
//
// Every method is safe for concurrent use. Mutations are serialized and each
// effective one is published to subscribers as a Change with a monotonically
// increasing version.
package store

import (
	"context"
	"sync"

	"github.com/Danii44/PRIMEHODDIE/models"

	"go.uber.org/zap"
)

type Kind string

const (
	KindCart     Kind = "cart"
	KindWishlist Kind = "wishlist"
	KindUser     Kind = "user"
	KindUI       Kind = "ui"
)

// Change describes one committed mutation. State is a private snapshot of the
// persisted subset taken right after the mutation.
type Change struct {
	Version uint64
	Kind    Kind
	State   models.PersistedState
}

// Persisted reports whether the change touched the persisted subset.
func (c Change) Persisted() bool {
	return c.Kind != KindUI
}

type Listener func(Change)

type UIState struct {
	CartOpen      bool   `json:"cartOpen"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

// View is everything a page needs to render the shopper's state.
type View struct {
	Cart            []models.CartItem `json:"cart"`
	CartTotal       float64           `json:"cartTotal"`
	CartCount       int               `json:"cartCount"`
	Wishlist        []string          `json:"wishlist"`
	User            *models.User      `json:"user"`
	IsAuthenticated bool              `json:"isAuthenticated"`
	UI              UIState           `json:"ui"`
}

type Store struct {
	catalog *Catalog
	logger  *zap.Logger

	mu       sync.RWMutex
	cart     []models.CartItem
	wishlist []string
	user     *models.User
	ui       UIState
	version  uint64

	listeners listenerSet[Change]
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty store reading products from catalog.
func New(catalog *Catalog, opts ...Option) *Store {
	s := &Store{
		catalog:  catalog,
		logger:   zap.NewNop(),
		cart:     []models.CartItem{},
		wishlist: []string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = NewCatalog(nil, s.logger)
	}
	return s
}

// Hydrate replaces the persisted subset with state, repaired if necessary.
// It is meant to run before the store is handed out and publishes nothing.
func (s *Store) Hydrate(state models.PersistedState) {
	state = models.NormalizeState(state)

	s.mu.Lock()
	s.cart = state.Cart
	s.wishlist = state.Wishlist
	s.user = state.User
	s.mu.Unlock()

	s.logger.Debug("Store hydrated",
		zap.Int("cart_lines", len(state.Cart)),
		zap.Int("wishlist", len(state.Wishlist)),
		zap.Bool("authenticated", state.User != nil),
	)
}

func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	return s.listeners.add(fn)
}

// Snapshot returns a deep copy of the persisted subset.
func (s *Store) Snapshot() models.PersistedState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.snapshotLocked()
	return View{
		Cart:            state.Cart,
		CartTotal:       cartTotal(s.cart),
		CartCount:       cartCount(s.cart),
		Wishlist:        state.Wishlist,
		User:            state.User,
		IsAuthenticated: s.user != nil,
		UI:              s.ui,
	}
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Catalog() *Catalog {
	return s.catalog
}

func (s *Store) FetchProducts(ctx context.Context) error {
	return s.catalog.Fetch(ctx)
}

func (s *Store) Products() []models.Product {
	return s.catalog.Products()
}

func (s *Store) IsLoading() bool {
	return s.catalog.IsLoading()
}

func (s *Store) Categories() []models.Category {
	return s.catalog.Categories()
}

// commit runs mutate under the write lock. When mutate reports a change the
// version is bumped and the change is published after the lock is released.
func (s *Store) commit(kind Kind, mutate func() bool) {
	s.mu.Lock()
	if !mutate() {
		s.mu.Unlock()
		return
	}
	s.version++
	change := Change{Version: s.version, Kind: kind, State: s.snapshotLocked()}
	s.mu.Unlock()

	s.listeners.emit(change)
}

func (s *Store) snapshotLocked() models.PersistedState {
	return models.PersistedState{
		Cart:     s.cart,
		Wishlist: s.wishlist,
		User:     s.user,
	}.Clone()
}
