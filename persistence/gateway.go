// Package persistence writes the persisted subset of a store through to a
// key-value record and reads it back on startup.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Danii44/PRIMEHODDIE/models"
	"github.com/Danii44/PRIMEHODDIE/store"

	"go.uber.org/zap"
)

// DefaultKey is the record name the storefront has always used.
const DefaultKey = "prime-hoodie-storage"

const defaultTimeout = 2 * time.Second

type Gateway struct {
	kv      KV
	key     string
	timeout time.Duration
	logger  *zap.Logger
	onFail  func(key string, err error)

	mu          sync.Mutex
	lastVersion uint64
	// dirty is set while the newest persisted change has not reached the KV.
	dirty bool
}

type GatewayOption func(*Gateway)

func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithSaveFailureHook registers fn to be told about every failed write-through.
func WithSaveFailureHook(fn func(key string, err error)) GatewayOption {
	return func(g *Gateway) {
		g.onFail = fn
	}
}

func NewGateway(kv KV, key string, opts ...GatewayOption) *Gateway {
	if key == "" {
		key = DefaultKey
	}
	g := &Gateway{
		kv:      kv,
		key:     key,
		timeout: defaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Key() string {
	return g.key
}

// Load reads the record. A missing or corrupt record yields the empty state.
// Any other read failure is returned: the record may still be intact, and
// starting empty would overwrite it with the next change.
func (g *Gateway) Load(ctx context.Context) (models.PersistedState, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	data, err := g.kv.Get(ctx, g.key)
	if errors.Is(err, ErrNotFound) {
		return models.EmptyState(), nil
	}
	if err != nil {
		return models.PersistedState{}, fmt.Errorf("read %s: %w", g.key, err)
	}

	state, err := Decode(data)
	if err != nil {
		g.logger.Warn("Discarding corrupt persisted state", zap.String("key", g.key), zap.Error(err))
		return models.EmptyState(), nil
	}
	return state, nil
}

func (g *Gateway) Save(ctx context.Context, state models.PersistedState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.kv.Set(ctx, g.key, data)
}

// Observe is a store.Listener. Changes outside the persisted subset and
// versions older than the last one written are skipped. A failed write is
// logged and otherwise ignored: the in-memory store stays authoritative.
func (g *Gateway) Observe(change store.Change) {
	if !change.Persisted() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if change.Version <= g.lastVersion {
		return
	}

	if err := g.Save(context.Background(), change.State); err != nil {
		g.logger.Warn("Failed to persist store state",
			zap.String("key", g.key),
			zap.Uint64("version", change.Version),
			zap.Error(err),
		)
		g.dirty = true
		if g.onFail != nil {
			g.onFail(g.key, err)
		}
		return
	}
	g.lastVersion = change.Version
	g.dirty = false
}

// Pending reports whether the newest persisted change failed to be written.
func (g *Gateway) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dirty
}

// Flush writes the current snapshot of s if an earlier write-through failed.
func (g *Gateway) Flush(ctx context.Context, s *store.Store) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.dirty {
		return nil
	}

	version := s.Version()
	if err := g.Save(ctx, s.Snapshot()); err != nil {
		if g.onFail != nil {
			g.onFail(g.key, err)
		}
		return err
	}
	if version > g.lastVersion {
		g.lastVersion = version
	}
	g.dirty = false
	return nil
}

// Attach hydrates s from the record and then writes every later change
// through. On a read error s is left untouched and nothing is subscribed.
func (g *Gateway) Attach(ctx context.Context, s *store.Store) (detach func(), err error) {
	state, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.Hydrate(state)

	g.mu.Lock()
	g.lastVersion = s.Version()
	g.dirty = false
	g.mu.Unlock()

	return s.Subscribe(g.Observe), nil
}

func (g *Gateway) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.kv.Delete(ctx, g.key)
}
