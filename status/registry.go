// Package status keeps named atomic counters shared across the game
package status

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Metric keys shared by the event registry and the world session
const (
	EventsDispatched = "event.dispatched"
	EventsFailed     = "event.failed"
	EventsPosted     = "event.posted"
	EventsScheduled  = "event.scheduled"
	HandlersActive   = "event.handlers"
	TilesChanged     = "tiles.changed"
	TilesRemoved     = "tiles.removed"
	TilesCollected   = "tiles.collected"
	TilesDestroyed   = "tiles.destroyed"
	GeneratorsFired  = "tiles.generators"
	MapResizes       = "map.resizes"
)

// Registry maps metric keys to counters
// Callers cache counter pointers at setup and update the atomics directly;
// only the first lookup of a key takes the write lock
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]*atomic.Int64)}
}

// Counter returns the counter for key, creating it on first use
func (r *Registry) Counter(key string) *atomic.Int64 {
	r.mu.RLock()
	c, ok := r.counters[key]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[key]; ok {
		return c
	}
	c = new(atomic.Int64)
	r.counters[key] = c
	return c
}

// Has reports whether key was ever requested
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.counters[key]
	return ok
}

// Count returns the number of registered counters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.counters)
}

// Range visits counters in sorted key order
func (r *Registry) Range(fn func(key string, c *atomic.Int64)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, k := range slices.Sorted(maps.Keys(r.counters)) {
		fn(k, r.counters[k])
	}
}

// Snapshot copies all counter values
func (r *Registry) Snapshot() map[string]int64 {
	out := make(map[string]int64, r.Count())
	r.Range(func(key string, c *atomic.Int64) {
		out[key] = c.Load()
	})
	return out
}

// String renders counters one per line in key order
func (r *Registry) String() string {
	var b strings.Builder
	r.Range(func(key string, c *atomic.Int64) {
		fmt.Fprintf(&b, "%-20s %d\n", key, c.Load())
	})
	return b.String()
}
