// Package diskcache provides a persistent key-value cache that keeps entry
// metadata in memory and spills the cached values themselves to file
// storage. Values survive process restarts: on startup the cache scans its
// storage location and rebuilds the in-memory index from the records it
// finds.
//
// # Architecture
//
// The cache is composed of four collaborators behind one facade:
//
//	Cache (facade)
//	├── metaIndex        - in-memory key → descriptor map, size accounting
//	├── entryStore       - atomic record files on a core.FS filesystem
//	├── EvictionPolicy   - ordering of removals under size pressure
//	└── Codec            - record serialization (JSON by default)
//
// Every stored record is self-describing: it carries its own key, value,
// and expiry. The index is therefore disposable; it can always be rebuilt
// from storage alone. Records are addressed by random locators that are
// never derived from keys, so replacing an entry writes a fresh file and
// the old one is deleted rather than overwritten.
//
// # Usage
//
//	cache, err := diskcache.New(ctx, diskcache.Config{
//		Path:         "/var/cache/app",
//		DefaultTTL:   5 * time.Minute,
//		MaxSizeBytes: 64 << 20,
//	})
//	if err != nil {
//		return err
//	}
//	defer cache.Close()
//
//	if err := cache.Set(ctx, "manifest:v1", payload); err != nil {
//		return err
//	}
//	value, ok, err := cache.Get(ctx, "manifest:v1")
//
// Storage defaults to the local filesystem. Tests typically inject an
// in-memory filesystem instead:
//
//	cache, err := diskcache.New(ctx, cfg, diskcache.WithFS(billy.NewMemory()))
//
// # Expiry and Eviction
//
// Every entry has a TTL. Expiry is lazy: an expired entry is detected and
// removed when a Get touches it, or during an eviction sweep; there is no
// background janitor. A zero TTL passed to SetWithTTL is honored as an
// entry that expires immediately.
//
// When MaxSizeBytes is set and an insert would exceed it, the cache first
// removes every expired entry, then removes live entries in the order the
// EvictionPolicy dictates until the insert fits. The default policy evicts
// the entries whose expiry is furthest in the future, preserving data that
// is about to lapse anyway.
//
// # Failure Model
//
// Get distinguishes absence from failure: a missing or expired key is
// (nil, false, nil), not an error. A record that exists but cannot be
// decoded yields an error wrapping ErrCorruptRecord. During the startup
// scan the same condition is recovered instead: the corrupt file is
// deleted and skipped so one bad record never blocks startup. Only failure
// to enumerate the storage location itself is fatal to New.
//
// # Concurrency
//
// All methods are safe for concurrent use. Mutations on the same key are
// serialized; reads and operations on distinct keys proceed in parallel.
package diskcache
