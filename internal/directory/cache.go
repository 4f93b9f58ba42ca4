package directory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gate-pass-api-server/internal/models"
)

const defaultMaxEntries = 1024

type cacheEntry struct {
	profile   models.UserProfile
	fetchedAt time.Time
}

// Cache is a bounded read-through cache over a Lookup. Concurrent misses
// on the same service number share one upstream call.
type Cache struct {
	lookup Lookup
	group  singleflight.Group

	mu         sync.Mutex
	entries    map[string]cacheEntry
	order      []string // insertion order, evicted oldest-first
	maxEntries int
	ttl        time.Duration // zero means no expiry
}

func NewCache(lookup Lookup, maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Cache{
		lookup:     lookup,
		entries:    make(map[string]cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Profile returns the cached profile for a service number, fetching it
// from the upstream on a miss.
func (c *Cache) Profile(ctx context.Context, serviceNo string) (models.UserProfile, error) {
	c.mu.Lock()
	if e, ok := c.entries[serviceNo]; ok {
		if c.ttl == 0 || time.Since(e.fetchedAt) < c.ttl {
			c.mu.Unlock()
			return e.profile, nil
		}
		c.remove(serviceNo)
	}
	c.mu.Unlock()

	ch := c.group.DoChan(serviceNo, func() (interface{}, error) {
		profile, err := c.lookup.Profile(context.WithoutCancel(ctx), serviceNo)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.store(serviceNo, profile)
		c.mu.Unlock()
		return profile, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return models.UserProfile{}, res.Err
		}
		return res.Val.(models.UserProfile), nil
	case <-ctx.Done():
		return models.UserProfile{}, ctx.Err()
	}
}

// ProfileOrPlaceholder degrades a failed lookup to the N/A placeholder so
// one bad record never fails a whole page.
func (c *Cache) ProfileOrPlaceholder(ctx context.Context, serviceNo string) models.UserProfile {
	profile, err := c.Profile(ctx, serviceNo)
	if err != nil {
		return models.PlaceholderProfile(serviceNo)
	}
	return profile
}

// Invalidate drops one entry.
func (c *Cache) Invalidate(serviceNo string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(serviceNo)
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// store assumes c.mu is held.
func (c *Cache) store(serviceNo string, profile models.UserProfile) {
	if _, ok := c.entries[serviceNo]; !ok {
		c.order = append(c.order, serviceNo)
	}
	c.entries[serviceNo] = cacheEntry{profile: profile, fetchedAt: time.Now()}
	for len(c.entries) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// remove assumes c.mu is held.
func (c *Cache) remove(serviceNo string) {
	if _, ok := c.entries[serviceNo]; !ok {
		return
	}
	delete(c.entries, serviceNo)
	for i, sn := range c.order {
		if sn == serviceNo {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
