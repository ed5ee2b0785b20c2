package embedding

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Cache memoizes text embeddings with a time-to-live. Entries older than the
// TTL are recomputed. When the cache grows past maxEntries, the evictBatch
// oldest entries (by insertion time) are dropped in one pass, amortizing
// cleanup cost instead of evicting per insert.
type Cache struct {
	mu       sync.Mutex
	provider Provider
	entries  map[string]cacheEntry

	ttl        time.Duration
	maxEntries int
	evictBatch int

	now func() time.Time
}

type cacheEntry struct {
	vec        []float32
	insertedAt time.Time
}

const (
	// DefaultTTL matches the 5 minute query-embedding cache window.
	DefaultTTL = 5 * time.Minute

	defaultMaxEntries = 100
	defaultEvictBatch = 50
)

// NewCache wraps a provider with a TTL embedding cache.
func NewCache(provider Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		provider:   provider,
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: defaultMaxEntries,
		evictBatch: defaultEvictBatch,
		now:        time.Now,
	}
}

// Get returns the embedding for text, computing it through the provider on a
// miss or an expired entry.
func (c *Cache) Get(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	if vec, ok := c.lookup(text); ok {
		c.mu.Unlock()
		return vec, nil
	}
	c.mu.Unlock()

	vec, err := c.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.insert(text, vec)
	c.mu.Unlock()
	return vec, nil
}

// GetBatch returns embeddings for texts, computing all misses in a single
// provider call. The result is aligned with the input order.
func (c *Cache) GetBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))

	c.mu.Lock()
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := c.lookup(text); ok {
			result[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return result, nil
	}

	computed, err := c.provider.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	// A short batch would leave nil vectors in the result; fail loudly so
	// callers never score against them.
	if len(computed) != len(missing) {
		return nil, fmt.Errorf("embed batch: got %d vectors for %d texts", len(computed), len(missing))
	}

	c.mu.Lock()
	for j, idx := range missingIdx {
		result[idx] = computed[j]
		c.insert(missing[j], computed[j])
	}
	c.mu.Unlock()
	return result, nil
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// lookup returns a fresh entry. Caller holds the lock. Expired entries are
// left in place; insert overwrites them after recomputation.
func (c *Cache) lookup(text string) ([]float32, bool) {
	entry, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) >= c.ttl {
		return nil, false
	}
	return entry.vec, true
}

// insert stores a vector and evicts the oldest batch when over capacity.
// Caller holds the lock.
func (c *Cache) insert(text string, vec []float32) {
	c.entries[text] = cacheEntry{vec: vec, insertedAt: c.now()}

	if len(c.entries) <= c.maxEntries {
		return
	}

	type aged struct {
		text string
		at   time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for t, e := range c.entries {
		all = append(all, aged{text: t, at: e.insertedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })

	n := c.evictBatch
	if n > len(all) {
		n = len(all)
	}
	for _, victim := range all[:n] {
		delete(c.entries, victim.text)
	}
}
