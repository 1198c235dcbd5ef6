package progress

import (
	"context"
	"sync"
	"time"
)

// CacheTTL is the freshness window of an aggregation result.
const CacheTTL = 5 * time.Minute

// FetchFunc produces a freshly aggregated progress map for a user.
type FetchFunc func(ctx context.Context, userID int) (map[Key]*Entry, error)

// Cache holds aggregation results per user with a time-to-live. A fresh
// read returns the identical cached map (no recomputation); a stale or
// forced read rebuilds. The mutex guards the state map only — the fetch
// itself runs unlocked, so two concurrent forced refreshes both aggregate
// and the last write wins. Aggregation is idempotent, so that is safe.
type Cache struct {
	fetch FetchFunc
	now   func() time.Time

	mu    sync.Mutex
	state map[int]*cacheState
}

type cacheState struct {
	entries map[Key]*Entry
	builtAt time.Time
}

// NewCache creates a cache. now is injectable so tests control freshness.
func NewCache(fetch FetchFunc, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{fetch: fetch, now: now, state: make(map[int]*cacheState)}
}

// Get returns the progress map for a user, rebuilding when there is no
// prior build, the prior build has aged past the TTL, or forceRefresh is
// set. userID <= 0 means no authenticated user: an empty map is returned
// without fetching. Fetch failures degrade to an empty map and leave any
// prior state untouched so the next read retries.
func (c *Cache) Get(ctx context.Context, userID int, forceRefresh bool) map[Key]*Entry {
	if userID <= 0 {
		return map[Key]*Entry{}
	}

	c.mu.Lock()
	if st, ok := c.state[userID]; ok && !forceRefresh && c.now().Sub(st.builtAt) < CacheTTL {
		entries := st.entries
		c.mu.Unlock()
		return entries
	}
	c.mu.Unlock()

	entries, err := c.fetch(ctx, userID)
	if err != nil {
		return map[Key]*Entry{}
	}
	if entries == nil {
		entries = map[Key]*Entry{}
	}

	c.mu.Lock()
	c.state[userID] = &cacheState{entries: entries, builtAt: c.now()}
	c.mu.Unlock()

	return entries
}

// Clear drops all cached state, forcing the next Get to rebuild regardless
// of age. Wired to the workout-completion event.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.state = make(map[int]*cacheState)
	c.mu.Unlock()
}
