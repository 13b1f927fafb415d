package inmemory

import (
	"sync"
	"time"

	rankdomain "expensezen/internal/domain/rank"
)

// LeaderboardCache keeps computed boards per requested size until they
// expire or balances change.
type LeaderboardCache struct {
	mu    sync.RWMutex
	items map[int]leaderboardItem
	now   func() time.Time
}

type leaderboardItem struct {
	entries   []rankdomain.Entry
	expiresAt time.Time
}

func NewLeaderboardCache() *LeaderboardCache {
	return &LeaderboardCache{
		items: make(map[int]leaderboardItem),
		now:   time.Now,
	}
}

func (c *LeaderboardCache) Get(limit int) ([]rankdomain.Entry, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[limit]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[limit]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, limit)
		}
		c.mu.Unlock()
		return nil, false
	}

	return append([]rankdomain.Entry(nil), item.entries...), true
}

func (c *LeaderboardCache) Set(limit int, entries []rankdomain.Entry, ttl time.Duration) {
	if ttl <= 0 {
		c.mu.Lock()
		delete(c.items, limit)
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.items[limit] = leaderboardItem{
		entries:   append([]rankdomain.Entry(nil), entries...),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *LeaderboardCache) Clear() {
	c.mu.Lock()
	c.items = make(map[int]leaderboardItem)
	c.mu.Unlock()
}
