package cache

import (
	"sync"

	"worldtour/internal/report"
)

// TripKey identifies a trip result. Epoch changes whenever the dataset is
// reloaded, so stale entries are never matched.
type TripKey struct {
	Origin      int64
	BudgetHours int
	Epoch       uint64
}

// TripCache memoises trip reports per origin.
type TripCache struct {
	mu    sync.RWMutex
	epoch uint64
	m     map[TripKey]report.Report
}

func NewTripCache() *TripCache {
	return &TripCache{m: make(map[TripKey]report.Report)}
}

func (c *TripCache) Get(k TripKey) (report.Report, bool) {
	c.mu.RLock()
	v, ok := c.m[k]
	c.mu.RUnlock()
	return v, ok
}

func (c *TripCache) Put(k TripKey, r report.Report) {
	c.mu.Lock()
	c.m[k] = r
	c.mu.Unlock()
}

func (c *TripCache) Epoch() uint64 {
	c.mu.RLock()
	e := c.epoch
	c.mu.RUnlock()
	return e
}

// BumpEpoch invalidates every cached entry and drops them.
func (c *TripCache) BumpEpoch() {
	c.mu.Lock()
	c.epoch++
	c.m = make(map[TripKey]report.Report)
	c.mu.Unlock()
}

func (c *TripCache) Len() int {
	c.mu.RLock()
	n := len(c.m)
	c.mu.RUnlock()
	return n
}
