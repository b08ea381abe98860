package loader

import (
	"context"
	"sync"
	"time"
)

// Cache stores raw fixture bytes keyed by path for a bounded time. The
// default is in-process; a Redis-backed implementation exists for deployments
// that want the cache shared across replicas.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Purge(ctx context.Context)
}

type memoryEntry struct {
	data      []byte
	fetchedAt time.Time
	ttl       time.Duration
}

// MemoryCache is the default time-boxed in-memory cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) > e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.data, true
}

func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{data: data, fetchedAt: c.now(), ttl: ttl}
}

func (c *MemoryCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
}

// Len reports the number of live entries, expired ones included until read.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
