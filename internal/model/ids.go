package model

import (
	"sync"
	"time"
)

// IDs hands out creation-time-derived identifiers (Unix milliseconds).
// Ids are strictly increasing, so two ids minted in the same millisecond
// still differ.
type IDs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDs returns a generator reading the given clock; nil means time.Now.
func NewIDs(now func() time.Time) *IDs {
	if now == nil {
		now = time.Now
	}
	return &IDs{now: now}
}

// Next returns a fresh id.
func (g *IDs) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe makes sure future ids are greater than id. Used after loading
// persisted lists so new ids never collide with stored ones.
func (g *IDs) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}
