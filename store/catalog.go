package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/Danii44/PRIMEHODDIE/errors"
	"github.com/Danii44/PRIMEHODDIE/models"

	"go.uber.org/zap"
)

// ProductReader reads the whole product collection ordered by name ascending.
type ProductReader interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

var (
	ErrFetchSuperseded = errors.New("catalog fetch superseded by a newer request")
	ErrNoProductReader = errors.New("catalog has no product reader")
)

// FetchFailedNotice is the transient message shown when a refresh fails.
const FetchFailedNotice = "We couldn't refresh the collection. Showing the last loaded products."

type CatalogEvent string

const (
	CatalogLoading     CatalogEvent = "loading"
	CatalogReplaced    CatalogEvent = "replaced"
	CatalogFetchFailed CatalogEvent = "fetch_failed"
)

type CatalogChange struct {
	Event    CatalogEvent
	Loading  bool
	Products int
	Notice   string
	Err      error
}

// Catalog holds the last fetched product list. The list is only ever
// replaced wholesale by the most recently issued fetch.
type Catalog struct {
	reader ProductReader
	logger *zap.Logger

	mu       sync.RWMutex
	products []models.Product
	loading  bool
	issued   uint64

	listeners listenerSet[CatalogChange]
}

func NewCatalog(reader ProductReader, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		reader:   reader,
		logger:   logger,
		products: []models.Product{},
	}
}

// Fetch reloads the catalog. Each call takes a request token; a response that
// arrives after a newer call was issued is dropped and ErrFetchSuperseded is
// returned. A failed or cancelled fetch keeps the previous products.
func (c *Catalog) Fetch(ctx context.Context) error {
	if c.reader == nil {
		return ErrNoProductReader
	}

	c.mu.Lock()
	c.issued++
	token := c.issued
	c.loading = true
	held := len(c.products)
	c.mu.Unlock()
	c.listeners.emit(CatalogChange{Event: CatalogLoading, Loading: true, Products: held})

	items, err := c.reader.ListProducts(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	c.mu.Lock()
	if token != c.issued {
		c.mu.Unlock()
		c.logger.Debug("Discarding superseded catalog response", zap.Uint64("token", token))
		return ErrFetchSuperseded
	}
	c.loading = false

	if err != nil {
		held = len(c.products)
		c.mu.Unlock()
		c.logger.Warn("Catalog fetch failed, keeping previous products",
			zap.Error(err),
			zap.Int("products", held),
		)
		c.listeners.emit(CatalogChange{Event: CatalogFetchFailed, Products: held, Notice: FetchFailedNotice, Err: err})
		return fmt.Errorf("fetch products: %w", apperrors.Wrap(apperrors.ErrCatalogUnavailable, err))
	}

	if items == nil {
		items = []models.Product{}
	}
	c.products = items
	c.mu.Unlock()

	c.logger.Info("Catalog replaced", zap.Int("products", len(items)), zap.Uint64("token", token))
	c.listeners.emit(CatalogChange{Event: CatalogReplaced, Products: len(items)})
	return nil
}

// Products returns private copies of the current list.
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out
}

// Product looks id up in the current list and returns a private copy.
func (c *Catalog) Product(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.Product{}, false
}

func (c *Catalog) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Categories is recomputed from the current list on every call.
func (c *Catalog) Categories() []models.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return DeriveCategories(c.products)
}

func (c *Catalog) Subscribe(fn func(CatalogChange)) (unsubscribe func()) {
	return c.listeners.add(fn)
}
