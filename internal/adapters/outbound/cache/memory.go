package cache

import (
	"context"
	"sync"
	"time"

	"admin_console/internal/core/dashboard"
	"admin_console/internal/ports/outbound"
)

type entry struct {
	view     *dashboard.View
	lastSeen time.Time
}

// MemoryViewStore keeps live dashboard views per session. Entries idle for
// longer than the TTL are unmounted and dropped by Sweep.
type MemoryViewStore struct {
	mu    sync.RWMutex
	store map[string]*entry
	ttl   time.Duration
	now   func() time.Time
	stats *Stats
}

func NewMemoryViewStore(idleTTL time.Duration) *MemoryViewStore {
	return &MemoryViewStore{
		store: make(map[string]*entry),
		ttl:   idleTTL,
		now:   time.Now,
		stats: NewStats(),
	}
}

func (c *MemoryViewStore) Get(_ context.Context, sessionID string) (*dashboard.View, bool) {
	c.mu.Lock()
	e, ok := c.store[sessionID]
	if ok {
		e.lastSeen = c.now()
	}
	c.mu.Unlock()

	if ok {
		c.stats.IncHit()
		return e.view, true
	}

	c.stats.IncMiss()
	return nil, false
}

func (c *MemoryViewStore) Set(_ context.Context, sessionID string, view *dashboard.View) {
	if sessionID == "" || view == nil {
		return
	}
	c.mu.Lock()
	prev, ok := c.store[sessionID]
	c.store[sessionID] = &entry{view: view, lastSeen: c.now()}
	c.mu.Unlock()

	if ok && prev.view != view {
		prev.view.Unmount()
	}
}

func (c *MemoryViewStore) Delete(_ context.Context, sessionID string) {
	c.mu.Lock()
	e, ok := c.store[sessionID]
	delete(c.store, sessionID)
	c.mu.Unlock()

	if ok {
		e.view.Unmount()
	}
}

func (c *MemoryViewStore) Len(_ context.Context) int {
	c.mu.RLock()
	n := len(c.store)
	c.mu.RUnlock()
	return n
}

// Sweep drops idle views and returns how many were evicted.
func (c *MemoryViewStore) Sweep(_ context.Context) int {
	if c.ttl <= 0 {
		return 0
	}
	cutoff := c.now().Add(-c.ttl)

	var evicted []*dashboard.View
	c.mu.Lock()
	for id, e := range c.store {
		if e.lastSeen.Before(cutoff) {
			evicted = append(evicted, e.view)
			delete(c.store, id)
		}
	}
	c.mu.Unlock()

	for _, v := range evicted {
		v.Unmount()
	}
	c.stats.AddEvicted(uint64(len(evicted)))
	return len(evicted)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *MemoryViewStore) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(evicted int)) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := c.Sweep(ctx); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// CloseAll unmounts every view; used on shutdown.
func (c *MemoryViewStore) CloseAll(_ context.Context) {
	c.mu.Lock()
	views := make([]*dashboard.View, 0, len(c.store))
	for id, e := range c.store {
		views = append(views, e.view)
		delete(c.store, id)
	}
	c.mu.Unlock()

	for _, v := range views {
		v.Unmount()
	}
}

func (c *MemoryViewStore) Stats() (hits, misses, evicted uint64) {
	return c.stats.Snapshot()
}

var _ outbound.ViewStore[*dashboard.View] = (*MemoryViewStore)(nil)
