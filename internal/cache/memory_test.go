package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSet(t *testing.T) {
	m := NewMemory(time.Hour)

	_, ok := m.Get("missing")
	assert.False(t, ok)

	m.Set("k", []byte("v"))
	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemory_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := NewMemoryWithClock(time.Hour, clock)

	m.Set("k", []byte("v"))

	now = now.Add(59 * time.Minute)
	_, ok := m.Get("k")
	assert.True(t, ok, "entry should survive within the TTL")

	now = now.Add(2 * time.Minute)
	_, ok = m.Get("k")
	assert.False(t, ok, "entry should expire after the TTL")

	// Lazy eviction removes the entry on the failed read.
	assert.Equal(t, 0, m.Len())
}

func TestMemory_SetRefreshesDeadline(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemoryWithClock(time.Hour, func() time.Time { return now })

	m.Set("k", []byte("old"))
	now = now.Add(50 * time.Minute)
	m.Set("k", []byte("new"))
	now = now.Add(50 * time.Minute)

	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemoryWithClock(0, func() time.Time { return now })

	m.Set("k", []byte("v"))
	now = now.Add(1000 * time.Hour)

	_, ok := m.Get("k")
	assert.True(t, ok)
}
