// Package cache owns the set of loaded graphs, keyed by opaque identifiers.
// Loading parses outside the table lock so a slow source never starves
// readers; a graph obtained by Get stays valid for the caller's whole query
// even if the entry is evicted concurrently, because graphs are immutable and
// lifetime is extended by any holder.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentic-research/depscope/internal/loader"
	"github.com/agentic-research/depscope/internal/model"
)

// ErrNotLoaded is returned by Get when the identifier is unknown or evicted.
var ErrNotLoaded = errors.New("model not loaded")

// DefaultLoadTimeout bounds a single load. Loading is the one operation that
// scales with input size into the seconds range; queries never block on it.
const DefaultLoadTimeout = 60 * time.Second

// LoadError reports a failed load attempt: unreadable source, malformed
// model, or timeout. The cache is left unchanged.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Source, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// Entry pairs an identifier with its graph and load metadata.
type Entry struct {
	ID       string
	Graph    *model.Graph
	Source   string
	LoadedAt time.Time
}

// LoadFunc parses a source reference into a graph.
type LoadFunc func(ctx context.Context, sourceRef string) (*model.Graph, error)

// Cache is the identifier table. The table itself is the only mutable shared
// state; Load and Evict take the write lock, Get and List the read lock, and
// none of them touch any graph's data.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	timeout time.Duration
	loadFn  LoadFunc
	logger  *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLoadTimeout overrides the default 60s load bound.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLoader replaces the default file loader. Tests inject in-memory graphs
// through this.
func WithLoader(fn LoadFunc) Option {
	return func(c *Cache) { c.loadFn = fn }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty cache. Each Cache is an isolated instance; nothing is
// process-global.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*Entry),
		timeout: DefaultLoadTimeout,
		loadFn:  loader.Load,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load parses sourceRef, validates the graph, and caches it under a fresh
// identifier. Identifiers are never reused within a process lifetime, so a
// stale identifier can never resolve to a newer graph after a reload.
func (c *Cache) Load(ctx context.Context, sourceRef string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	c.logger.Info("loading model", slog.String("source", sourceRef))

	// Parse on a separate goroutine: loaders poll the context, but a loader
	// stuck in blocking I/O must not hold Load past its deadline either.
	type outcome struct {
		g   *model.Graph
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		g, err := c.loadFn(ctx, sourceRef)
		done <- outcome{g, err}
	}()

	var g *model.Graph
	select {
	case o := <-done:
		if o.err != nil {
			c.logger.Error("model load failed",
				slog.String("source", sourceRef),
				slog.Duration("elapsed", time.Since(start)),
				slog.String("error", o.err.Error()))
			return "", &LoadError{Source: sourceRef, Err: o.err}
		}
		g = o.g
	case <-ctx.Done():
		c.logger.Error("model load timed out",
			slog.String("source", sourceRef),
			slog.Duration("elapsed", time.Since(start)))
		return "", &LoadError{Source: sourceRef, Err: ctx.Err()}
	}

	id := uuid.NewString()
	entry := &Entry{ID: id, Graph: g, Source: sourceRef, LoadedAt: time.Now()}

	c.mu.Lock()
	c.entries[id] = entry
	total := len(c.entries)
	c.mu.Unlock()

	c.logger.Info("model cached",
		slog.String("model_id", id),
		slog.String("source", sourceRef),
		slog.Int("elements", g.ElementCount()),
		slog.Int("associations", g.AssociationCount()),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("cached_models", total))
	return id, nil
}

// Get resolves an identifier to its graph, or ErrNotLoaded.
func (c *Cache) Get(id string) (*model.Graph, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, id)
	}
	return entry.Graph, nil
}

// Evict removes an entry. Evicting an unknown identifier is a no-op, not an
// error; cleanup paths cannot always know prior state.
func (c *Cache) Evict(id string) {
	c.mu.Lock()
	_, existed := c.entries[id]
	delete(c.entries, id)
	c.mu.Unlock()
	if existed {
		c.logger.Info("model evicted", slog.String("model_id", id))
	}
}

// Clear evicts everything and returns how many entries were removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()
	c.logger.Info("cache cleared", slog.Int("models", n))
	return n
}

// List snapshots the cached entries, ordered by load time then identifier for
// deterministic output.
func (c *Cache) List() []*Entry {
	c.mu.RLock()
	out := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadedAt.Equal(out[j].LoadedAt) {
			return out[i].LoadedAt.Before(out[j].LoadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
