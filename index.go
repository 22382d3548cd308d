package diskcache

import (
	"sync"
	"time"
)

// Descriptor is the indexed metadata for one cached entry. The value itself
// lives in storage under Locator.
type Descriptor struct {
	// Locator is the opaque storage id of the entry's record.
	Locator string
	// ExpiresAt is the instant after which the entry is expired.
	ExpiresAt time.Time
	// Size is the serialized record length in bytes.
	Size int64
}

// IsExpired reports whether the entry is expired at the given instant. An
// entry expiring exactly at now is still live.
func (d Descriptor) IsExpired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}

// metaIndex is the in-memory key to descriptor mapping. It is the single
// source of truth for membership and for the running size total; every
// mutation adjusts both in the same critical section.
type metaIndex struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
	size    int64
}

func newMetaIndex() *metaIndex {
	return &metaIndex{entries: make(map[string]Descriptor)}
}

// Get returns the descriptor stored under key.
func (idx *metaIndex) Get(key string) (Descriptor, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	desc, ok := idx.entries[key]
	return desc, ok
}

// Put stores desc under key and returns the descriptor it displaced, if any.
func (idx *metaIndex) Put(key string, desc Descriptor) (Descriptor, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prev, existed := idx.entries[key]
	idx.entries[key] = desc
	idx.size += desc.Size
	if existed {
		idx.size -= prev.Size
	}
	return prev, existed
}

// Remove deletes key from the index and returns its descriptor.
func (idx *metaIndex) Remove(key string) (Descriptor, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prev, existed := idx.entries[key]
	if !existed {
		return Descriptor{}, false
	}
	delete(idx.entries, key)
	idx.size -= prev.Size
	return prev, true
}

// RemoveIf deletes key only if it still maps to the given locator. The
// locator acts as an ordering token: a concurrent replace installs a new
// locator, so a stale removal turns into a no-op instead of deleting the
// replacement.
func (idx *metaIndex) RemoveIf(key, locator string) (Descriptor, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prev, existed := idx.entries[key]
	if !existed || prev.Locator != locator {
		return Descriptor{}, false
	}
	delete(idx.entries, key)
	idx.size -= prev.Size
	return prev, true
}

// Keys returns a snapshot of all indexed keys.
func (idx *metaIndex) Keys() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := make([]string, 0, len(idx.entries))
	for key := range idx.entries {
		keys = append(keys, key)
	}
	return keys
}

// Snapshot returns a copy of the full key to descriptor mapping.
func (idx *metaIndex) Snapshot() map[string]Descriptor {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string]Descriptor, len(idx.entries))
	for key, desc := range idx.entries {
		out[key] = desc
	}
	return out
}

// Size returns the summed serialized size of all indexed entries.
func (idx *metaIndex) Size() int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.size
}

// Len returns the number of indexed entries.
func (idx *metaIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.entries)
}
