package sqldb

import (
	"context"
	"sync"
	"time"

	"chatsql/internal/application/port/output"

	"golang.org/x/sync/singleflight"
)

var _ output.DatabaseProvider = (*Cache)(nil)

const DefaultTTL = 2 * time.Hour

type cacheEntry struct {
	uri     string
	db      output.DatabasePort
	expires time.Time
	refs    int
	stale   bool
}

// Cache keeps one database handle per connection URI for ttl. A handle that
// expires while leased is closed when its last lease is released.
type Cache struct {
	open   OpenFunc
	ttl    time.Duration
	logger output.LoggerPort
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*cacheEntry
	group   singleflight.Group
}

func NewCache(open OpenFunc, ttl time.Duration, logger output.LoggerPort) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		open:    open,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

func (c *Cache) Acquire(ctx context.Context, uri string) (output.DatabasePort, func(), error) {
	if e, ok := c.lease(uri); ok {
		return e.db, c.releaser(e), nil
	}

	_, err, _ := c.group.Do(uri, func() (interface{}, error) {
		if _, ok := c.peek(uri); ok {
			return nil, nil
		}

		c.logger.Info("Opening database handle", "uri", Redact(uri))
		db, err := c.open(ctx, uri)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[uri] = &cacheEntry{uri: uri, db: db, expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		return nil, nil, err
	}

	e, ok := c.lease(uri)
	if !ok {
		// Expired between open and lease; only possible with a tiny ttl.
		return c.Acquire(ctx, uri)
	}
	return e.db, c.releaser(e), nil
}

// lease returns a live entry with its refcount bumped, evicting it first if
// it has expired.
func (c *Cache) lease(uri string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.liveLocked(uri)
	if !ok {
		return nil, false
	}
	e.refs++
	return e, true
}

func (c *Cache) peek(uri string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveLocked(uri)
}

func (c *Cache) liveLocked(uri string) (*cacheEntry, bool) {
	e, ok := c.entries[uri]
	if !ok {
		return nil, false
	}
	if c.now().Before(e.expires) {
		return e, true
	}

	delete(c.entries, uri)
	e.stale = true
	if e.refs == 0 {
		c.closeEntry(e)
	}
	return nil, false
}

func (c *Cache) releaser(e *cacheEntry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			e.refs--
			if e.stale && e.refs == 0 {
				c.closeEntry(e)
			}
		})
	}
}

func (c *Cache) closeEntry(e *cacheEntry) {
	if err := e.db.Close(); err != nil {
		c.logger.Warn("Failed to close database handle", "uri", Redact(e.uri), "error", err)
		return
	}
	c.logger.Debug("Closed database handle", "uri", Redact(e.uri))
}

// Len reports the number of cached handles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close closes every cached handle, leased or not.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for uri, e := range c.entries {
		if err := e.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.entries, uri)
	}
	return firstErr
}
