package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/Danii44/PRIMEHODDIE/persistence"
	"github.com/Danii44/PRIMEHODDIE/store"

	"go.uber.org/zap"
)

const DefaultKeyPrefix = "storefront:state:"

type entry struct {
	store    *store.Store
	gateway  *persistence.Gateway
	detach   func()
	lastSeen time.Time
}

// Registry hands out one store per shopper session. Every store shares the
// catalog and persists its own record under <prefix><session id>.
type Registry struct {
	catalog        *store.Catalog
	kv             persistence.KV
	keyPrefix      string
	idleTTL        time.Duration
	persistTimeout time.Duration
	onSaveFailure  func(key string, err error)
	logger         *zap.Logger
	now            func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type Config struct {
	KeyPrefix      string
	IdleTTL        time.Duration
	PersistTimeout time.Duration
	// OnSaveFailure, when set, is called after a failed write-through.
	OnSaveFailure func(key string, err error)
}

func NewRegistry(catalog *store.Catalog, kv persistence.KV, cfg Config, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	return &Registry{
		catalog:        catalog,
		kv:             kv,
		keyPrefix:      cfg.KeyPrefix,
		idleTTL:        cfg.IdleTTL,
		persistTimeout: cfg.PersistTimeout,
		onSaveFailure:  cfg.OnSaveFailure,
		logger:         logger,
		now:            time.Now,
		sessions:       make(map[string]*entry),
	}
}

// Get returns the session's store, hydrating it from its record on first use.
// When the record cannot be read nothing is cached, so the next call retries.
func (r *Registry) Get(ctx context.Context, sessionID string) (*store.Store, error) {
	if s, ok := r.lookup(sessionID); ok {
		return s, nil
	}

	s := store.New(r.catalog, store.WithLogger(r.logger))
	gw := persistence.NewGateway(r.kv, r.keyPrefix+sessionID,
		persistence.WithTimeout(r.persistTimeout),
		persistence.WithLogger(r.logger),
		persistence.WithSaveFailureHook(r.onSaveFailure),
	)
	detach, err := gw.Attach(ctx, s)
	if err != nil {
		r.logger.Warn("Failed to load session state", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sessionID]; ok {
		// Another request hydrated the same session first.
		detach()
		e.lastSeen = r.now()
		return e.store, nil
	}
	r.sessions[sessionID] = &entry{store: s, gateway: gw, detach: detach, lastSeen: r.now()}
	r.logger.Debug("Session store created", zap.String("session_id", sessionID))
	return s, nil
}

func (r *Registry) lookup(sessionID string) (*store.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.store, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops stores idle for longer than the idle TTL. A store whose last
// write-through failed is flushed first and kept if that fails again.
func (r *Registry) Sweep(ctx context.Context) int {
	now := r.now()

	r.mu.Lock()
	idle := make(map[string]*entry)
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.idleTTL {
			idle[id] = e
		}
	}
	r.mu.Unlock()

	evicted := 0
	for id, e := range idle {
		if err := e.gateway.Flush(ctx, e.store); err != nil {
			r.logger.Warn("Keeping idle session with unsaved state", zap.String("session_id", id), zap.Error(err))
			continue
		}

		r.mu.Lock()
		if cur, ok := r.sessions[id]; ok && cur == e && now.Sub(cur.lastSeen) > r.idleTTL {
			e.detach()
			delete(r.sessions, id)
			evicted++
		}
		r.mu.Unlock()
	}
	if evicted > 0 {
		r.logger.Info("Evicted idle session stores", zap.Int("evicted", evicted), zap.Int("active", r.Len()))
	}
	return evicted
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}
