package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cabinetquote/backend/internal/domain/quote"
)

type entry struct {
	quote     quote.Quote
	expiresAt time.Time
}

// InMemoryQuoteCache implements QuoteCache with a process-local map.
// Suitable for single-instance deployments and tests.
type InMemoryQuoteCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryQuoteCache creates a cache whose entries live for ttl.
// It starts a background goroutine that removes expired entries.
func NewInMemoryQuoteCache(ttl time.Duration) *InMemoryQuoteCache {
	c := &InMemoryQuoteCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a copy of the cached quote
func (c *InMemoryQuoteCache) Get(_ context.Context, id string) (*quote.Quote, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false, nil
	}
	q := e.quote.Clone()
	return &q, true, nil
}

// Set stores a copy of q
func (c *InMemoryQuoteCache) Set(_ context.Context, q *quote.Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[q.ID] = entry{
		quote:     q.Clone(),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Invalidate removes the entry for id
func (c *InMemoryQuoteCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryQuoteCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryQuoteCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryQuoteCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
		}
	}
}

// Size returns the number of entries, including expired ones not yet cleaned up
func (c *InMemoryQuoteCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ QuoteCache = (*InMemoryQuoteCache)(nil)
