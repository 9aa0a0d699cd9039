package cache

import (
	"context"
	"sync"
	"time"

	appcatalog "github.com/ims/backend/internal/application/catalog"
)

type snapshotEntry struct {
	snapshot  *appcatalog.DashboardResponse
	expiresAt time.Time
}

// InMemoryDashboardCache stores dashboard snapshots in process memory.
// Suitable for single-instance deployments and testing.
type InMemoryDashboardCache struct {
	mu      sync.RWMutex
	entries map[int64]snapshotEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryDashboardCache creates an in-memory dashboard cache
func NewInMemoryDashboardCache(ttl time.Duration) *InMemoryDashboardCache {
	return &InMemoryDashboardCache{
		entries: make(map[int64]snapshotEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached snapshot for the threshold, or (nil, nil) when
// missing or expired. Expired entries are dropped lazily on read.
func (c *InMemoryDashboardCache) Get(_ context.Context, threshold int64) (*appcatalog.DashboardResponse, error) {
	c.mu.RLock()
	e, exists := c.entries[threshold]
	c.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, threshold)
		c.mu.Unlock()
		return nil, nil
	}
	return e.snapshot, nil
}

// Set stores the snapshot for the threshold with the configured TTL
func (c *InMemoryDashboardCache) Set(_ context.Context, threshold int64, snapshot *appcatalog.DashboardResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[threshold] = snapshotEntry{
		snapshot:  snapshot,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

var _ appcatalog.DashboardCache = (*InMemoryDashboardCache)(nil)
