package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alex-user-go/tripplan/internal/trip"
)

// Cache provides in-memory caching of computed plans with TTL and
// request collapsing (singleflight). Only successful plans are cached;
// failures are recomputed on every request.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	ttl      time.Duration
	inflight map[string]*inflightRequest
	done     chan struct{}
}

type cacheEntry struct {
	plan      trip.Plan
	expiresAt time.Time
}

type inflightRequest struct {
	done chan struct{}
	plan trip.Plan
	err  error
}

// NewCache creates a new Cache with the specified TTL.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		entries:  make(map[string]*cacheEntry),
		ttl:      ttl,
		inflight: make(map[string]*inflightRequest),
		done:     make(chan struct{}),
	}

	// Start background cleanup
	go c.cleanup()

	return c
}

// Close stops the background cleanup goroutine.
func (c *Cache) Close() {
	close(c.done)
}

// Key generates a cache key from the plan parameters. The locations list
// and the requirement string are order-sensitive, matching the search.
func (c *Cache) Key(locations []int, planSpec string, maxRun int) string {
	parts := make([]string, len(locations))
	for i, id := range locations {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s|%s|%d", strings.Join(parts, ","), planSpec, maxRun)
}

// GetOrPlan retrieves a cached plan or executes the plan function.
// Concurrent requests for the same key are collapsed (singleflight
// pattern). Returns the plan and a boolean indicating a cache hit.
func (c *Cache) GetOrPlan(ctx context.Context, key string, plan func() (trip.Plan, error)) (trip.Plan, bool, error) {
	c.mu.Lock()

	// Check cache
	if entry, ok := c.entries[key]; ok && time.Now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.plan, true, nil
	}

	// Check for existing in-flight request
	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.plan, false, inflight.err
		case <-ctx.Done():
			return nil, false, context.Cause(ctx)
		}
	}

	// Create new in-flight request
	inflight := &inflightRequest{
		done: make(chan struct{}),
	}
	c.inflight[key] = inflight
	c.mu.Unlock()

	// Execute plan (outside of lock)
	result, err := plan()

	// Store result
	c.mu.Lock()
	inflight.plan = result
	inflight.err = err
	if err == nil && result != nil {
		c.entries[key] = &cacheEntry{
			plan:      result,
			expiresAt: time.Now().Add(c.ttl),
		}
	}
	delete(c.inflight, key)
	c.mu.Unlock()

	// Notify all waiters
	close(inflight.done)

	return result, false, err
}

// Invalidate removes a specific key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// cleanup periodically removes expired entries.
func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
