// Package cache provides a small TTL-based byte cache used to memoize
// upstream API responses keyed by request URL.
package cache

// Store is a read-through cache of raw response bodies. Implementations must
// be safe for concurrent use.
type Store interface {
	// Get returns the cached value for key, or ok=false when the key is
	// absent or its entry has expired.
	Get(key string) (value []byte, ok bool)
	// Set stores value under key, replacing any previous entry. The entry
	// expires after the store's configured TTL.
	Set(key string, value []byte)
}

// Nop is a Store that caches nothing. Useful in tests that must observe
// every transport call.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Set(string, []byte)        {}
