// ABOUTME: In-memory response cache with TTL-based expiration
// ABOUTME: Thread-safe cache using sync.Map with lazy expiry and periodic sweep

package cache

import (
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	timestamp time.Time
}

// Cache holds raw response payloads keyed by request identity.
// An entry is fresh while now - timestamp < ttl. A ttl of zero disables caching.
type Cache struct {
	store    sync.Map
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithSweepInterval sets how often expired entries are evicted in the
// background. Defaults to the TTL; zero or negative disables the sweeper.
func WithSweepInterval(d time.Duration) Option {
	return func(c *Cache) { c.interval = d }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		ttl:      ttl,
		interval: ttl,
		now:      time.Now,
		logger:   slog.Default(),
		stop:     make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	if c.ttl > 0 && c.interval > 0 {
		go c.startCleanup()
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) Get(key string) ([]byte, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		c.logger.Debug("Cache miss", "key", key)
		return nil, false
	}

	e := val.(entry)
	if c.now().Sub(e.timestamp) >= c.ttl {
		c.store.Delete(key)
		c.logger.Debug("Cache expired", "key", key)
		return nil, false
	}

	c.logger.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache) Set(key string, data []byte) {
	if c.ttl <= 0 {
		return
	}
	c.store.Store(key, entry{
		data:      data,
		timestamp: c.now(),
	})
	c.logger.Debug("Cache set", "key", key, "ttl", c.ttl)
}

// Clear removes a single key.
func (c *Cache) Clear(key string) {
	c.store.Delete(key)
}

// ClearAll drops every entry.
func (c *Cache) ClearAll() {
	c.store.Clear()
	c.logger.Debug("Cache cleared")
}

// Len counts stored entries, expired or not.
func (c *Cache) Len() int {
	n := 0
	c.store.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep evicts every entry older than the TTL and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()
	removed := 0
	c.store.Range(func(key, val any) bool {
		e := val.(entry)
		if now.Sub(e.timestamp) > c.ttl {
			c.store.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Close stops the background sweeper. Safe to call more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.logger.Debug("Cache sweep", "evicted", n)
			}
		}
	}
}
