package cache

import (
	"sync"
	"time"
)

// entry is a cached value with its expiry deadline.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Store with a fixed TTL and lazy expiry: stale
// entries are dropped on read and swept opportunistically on write. There is
// no explicit invalidation; staleness up to the TTL is tolerated.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemory creates a Memory cache with the given TTL. A non-positive TTL
// disables expiry.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// NewMemoryWithClock is NewMemory with an injectable clock, for tests.
func NewMemoryWithClock(ttl time.Duration, now func() time.Time) *Memory {
	m := NewMemory(ttl)
	m.now = now
	return m
}

func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock: another goroutine may have
		// refreshed the entry since we released the read lock.
		if cur, still := m.entries[key]; still && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(key string, value []byte) {
	e := entry{value: value}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
}

// Len returns the number of entries currently held, including ones that have
// expired but not yet been evicted.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
