package similarity

import (
	"context"
	"sync"

	"github.com/okian/maven/pkg/metrics"
)

// entry is a cache slot with a population barrier. Readers wait on ready;
// after it closes the vec/err fields are immutable.
type entry struct {
	ready chan struct{}
	vec   []float64
	err   error
}

// cache is a concurrency-safe embedding store with per-key population
// locking: concurrent first references to the same expert trigger a single
// provider call, reads of populated entries take only the map lock.
type cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func newCache() *cache {
	return &cache{entries: make(map[string]*entry)}
}

// get returns the cached vector for id, populating it via populate on first
// reference. Failed populations are not cached so later calls retry.
func (c *cache) get(ctx context.Context, id string, populate func(ctx context.Context) ([]float64, error)) ([]float64, error) {
	c.mu.Lock()
	if e, ok := c.entries[id]; ok {
		c.mu.Unlock()
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.err == nil {
			metrics.RecordEmbeddingCacheHit()
		}
		return e.vec, e.err
	}

	// First reference: install the barrier before releasing the lock so
	// concurrent callers wait on this population instead of racing it.
	e := &entry{ready: make(chan struct{})}
	c.entries[id] = e
	c.mu.Unlock()

	metrics.RecordEmbeddingCacheMiss()
	vec, err := populate(ctx)

	c.mu.Lock()
	if err != nil {
		// Drop the failed entry: population is retryable.
		if cur, ok := c.entries[id]; ok && cur == e {
			delete(c.entries, id)
		}
	}
	e.vec, e.err = vec, err
	close(e.ready)
	c.mu.Unlock()

	return vec, err
}

// invalidate removes the entry for id. An in-flight population keeps
// serving its waiters but will not be found by later lookups.
func (c *cache) invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

func (c *cache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
