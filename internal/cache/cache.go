// Package cache provides the engine's single-slot, range-scoped view of
// one immutable data segment. Immutable segments are read in bulk — a
// segment is either entirely in cache or entirely absent — so there is no
// LRU here: the public contract only requires that whatever page is
// loaded satisfies InRange for the timestamped keys it is asked about.
package cache

import (
	"sync"

	"github.com/iamNilotpal/ckydb/internal/container"
)

// emptyBound is the sentinel start/end value of a cache that has not yet
// loaded any segment.
const emptyBound = "0"

// Cache holds one immutable segment's content, parsed into a map-TC, plus
// the half-open [start, end) interval of timestamped keys it covers.
type Cache struct {
	mu    sync.Mutex
	tc    *container.MapContainer
	start string
	end   string
}

// New returns an empty cache with the sentinel [0, 0) range.
func New() *Cache {
	return &Cache{tc: container.NewMap(), start: emptyBound, end: emptyBound}
}

// Bounds returns the cache's current [start, end) interval.
func (c *Cache) Bounds() (start, end string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start, c.end
}

// InRange reports whether tk falls within the cache's current interval:
// start <= tk < end, compared lexicographically (valid because
// timestamped keys are fixed-width numeric prefixes).
func (c *Cache) InRange(tk string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start <= tk && tk < c.end
}

// Get looks up tk in the cached page.
func (c *Cache) Get(tk string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tc.Get(tk)
}

// Insert upserts tk/value in the cached page, returning the previous
// value (if any) exactly like MapContainer.Insert.
func (c *Cache) Insert(tk, value string) (prev string, isNew bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tc.Insert(tk, value)
}

// Delete removes tk from the cached page.
func (c *Cache) Delete(tk string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tc.Delete(tk)
}

// Serialize returns the cached page's blob, ready to be written back to
// its backing data file.
func (c *Cache) Serialize() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tc.Serialize()
}

// Reload replaces the cached page with content and sets its new [start,
// end) bounds — used whenever the store needs a segment that the cache
// doesn't currently hold. skipped reports how many malformed tokens
// content contained, same as MapContainer.Reload.
func (c *Cache) Reload(content, start, end string) (skipped int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	skipped, err = c.tc.Reload(content)
	if err != nil {
		return skipped, err
	}
	c.start = start
	c.end = end
	return skipped, nil
}
