package store

import (
	"context"
	"sync"
	"time"
)

// SkillNameTTL is how long the skill id to name map is served from memory
// before the next call refreshes it from the database.
const SkillNameTTL = 5 * time.Minute

// skillNameSource is the slice of the data layer the cache refreshes from.
type skillNameSource interface {
	AllSkillNames(ctx context.Context) (map[uint]string, error)
}

// SkillNameCache serves the skill id to name mapping with a refresh TTL. The
// skill table is reference data read on every match request, so it is cached
// whole rather than per id.
type SkillNameCache struct {
	mu  sync.Mutex
	src skillNameSource
	ttl time.Duration

	names     map[uint]string
	fetchedAt time.Time

	now func() time.Time
}

// NewSkillNameCache creates a cache over the data layer. Non-positive ttl
// uses SkillNameTTL.
func NewSkillNameCache(src skillNameSource, ttl time.Duration) *SkillNameCache {
	if ttl <= 0 {
		ttl = SkillNameTTL
	}
	return &SkillNameCache{src: src, ttl: ttl, now: time.Now}
}

// Names returns the skill id to name mapping, refreshing when stale. A
// failed refresh with a previous snapshot in hand serves the stale snapshot.
func (c *SkillNameCache) Names(ctx context.Context) (map[uint]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := c.names != nil && c.now().Sub(c.fetchedAt) < c.ttl
	if fresh {
		return c.names, nil
	}

	names, err := c.src.AllSkillNames(ctx)
	if err != nil {
		if c.names != nil {
			return c.names, nil
		}
		return nil, err
	}

	c.names = names
	c.fetchedAt = c.now()
	return c.names, nil
}
