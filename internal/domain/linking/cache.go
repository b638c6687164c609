package linking

import (
	"sync"
	"time"
)

type cacheEntry struct {
	accounts  []AccountSummary
	expiresAt time.Time
}

// viewCache holds per-user account-list views. Entries expire lazily on
// read; linking a new account invalidates the owner's entry.
type viewCache struct {
	store sync.Map
	ttl   time.Duration
}

func newViewCache(ttl time.Duration) *viewCache {
	return &viewCache{ttl: ttl}
}

func (c *viewCache) get(userID string) ([]AccountSummary, bool) {
	val, ok := c.store.Load(userID)
	if !ok {
		return nil, false
	}

	e := val.(cacheEntry)
	if time.Now().After(e.expiresAt) {
		c.store.Delete(userID)
		return nil, false
	}
	return e.accounts, true
}

func (c *viewCache) set(userID string, accounts []AccountSummary) {
	c.store.Store(userID, cacheEntry{
		accounts:  accounts,
		expiresAt: time.Now().Add(c.ttl),
	})
}

func (c *viewCache) invalidate(userID string) {
	c.store.Delete(userID)
}
