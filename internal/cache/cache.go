// Package cache holds the persistent query caches: an in-memory map loaded fully from a Store at
// startup and rewritten fully to it every N new entries.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/agenthands/rellink/internal/logger"
	"github.com/agenthands/rellink/internal/metrics"
)

const DefaultFlushEvery = 10

// Store persists a whole cache. Save replaces the stored content.
type Store[V any] interface {
	Load(ctx context.Context) (map[string]V, error)
	Save(ctx context.Context, entries map[string]V) error
}

// Cache maps exact query strings to results. Entries are never invalidated.
// Put and Flush are safe for concurrent use; flushes are serialised so the store always ends
// with the latest snapshot.
type Cache[V any] struct {
	mu         sync.Mutex
	flushMu    sync.Mutex
	name       string
	entries    map[string]V
	store      Store[V]
	flushEvery int
	added      int
	log        *logger.Logger
}

// New loads the cache named name from store. A nil store gives a memory-only cache.
func New[V any](ctx context.Context, name string, store Store[V], flushEvery int, log *logger.Logger) (*Cache[V], error) {
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}
	c := &Cache[V]{
		name:       name,
		entries:    make(map[string]V),
		store:      store,
		flushEvery: flushEvery,
		log:        logger.OrNop(log).With("cache", name),
	}
	if store == nil {
		return c, nil
	}

	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cache %s: %w", name, err)
	}
	if entries != nil {
		c.entries = entries
	}
	c.log.Info("cache loaded", "entries", len(c.entries))
	return c, nil
}

// NewMemory returns a cache that is never persisted.
func NewMemory[V any](name string) *Cache[V] {
	c, _ := New[V](context.Background(), name, nil, DefaultFlushEvery, nil)
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	v, ok := c.entries[key]
	c.mu.Unlock()

	result := "miss"
	if ok {
		result = "hit"
	}
	metrics.CacheLookups.WithLabelValues(c.name, result).Inc()
	return v, ok
}

// Put stores v under key. Every flushEvery-th new key triggers a full rewrite of the store;
// overwriting an existing key does not count.
func (c *Cache[V]) Put(ctx context.Context, key string, v V) error {
	c.mu.Lock()
	_, exists := c.entries[key]
	c.entries[key] = v
	flush := false
	if !exists {
		c.added++
		flush = c.added%c.flushEvery == 0
	}
	c.mu.Unlock()

	if flush {
		return c.Flush(ctx)
	}
	return nil
}

// Flush writes every entry to the store.
func (c *Cache[V]) Flush(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.mu.Lock()
	snapshot := make(map[string]V, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	if err := c.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to flush cache %s: %w", c.name, err)
	}
	metrics.CacheFlushes.WithLabelValues(c.name).Inc()
	c.log.Debug("cache flushed", "entries", len(snapshot))
	return nil
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
