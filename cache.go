package diskcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/billy"
)

// Cache is a persistent key-value cache. Entry metadata lives in memory;
// the values themselves are spilled to file storage and survive restarts.
// All methods are safe for concurrent use.
type Cache struct {
	config  Config
	store   *entryStore
	index   *metaIndex
	policy  EvictionPolicy
	codec   Codec
	logger  *Logger
	metrics Metrics
	now     func() time.Time

	// keyLocks serializes mutations per key so replace and delete on the
	// same key cannot interleave. Reads never take a key lock.
	keyLocks sync.Map
	evictMu  sync.Mutex
	stats    counters
	closed   atomic.Bool
}

// New creates a cache over the storage location named in config. Unless
// disabled, existing records are scanned and the index rebuilt before New
// returns, so previously cached entries are immediately retrievable.
func New(ctx context.Context, config Config, opts ...Option) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "invalid cache config")
	}
	config.SetDefaults()

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.fs == nil {
		o.fs = billy.NewLocal()
	}
	if o.logger == nil {
		o.logger = NewNopLogger()
	}
	codec := o.codec
	if o.compress {
		codec = gzipCodec{inner: codec}
	}

	store, err := newEntryStore(o.fs, config.Path)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeUnavailable, "cache storage unavailable")
	}

	c := &Cache{
		config:  config,
		store:   store,
		index:   newMetaIndex(),
		policy:  o.policy,
		codec:   codec,
		logger:  o.logger,
		metrics: o.metrics,
		now:     o.now,
	}

	if err := c.store.CleanupTemp(ctx); err != nil {
		c.logger.Warn(ctx, "failed to clean temp files", "error", err)
	}

	if !config.SkipRehydrate {
		if err := c.rehydrate(ctx, o.rehydrateWorkers); err != nil {
			return nil, err
		}
	}

	c.metrics.Size(c.index.Len(), c.index.Size())
	return c, nil
}

// Set stores value under key with the configured default TTL. An existing
// entry for key is replaced and its old record deleted.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	return c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL. A zero TTL is
// valid and produces an entry that is already expired when read back; it is
// still written through to storage.
func (c *Cache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if ttl < 0 {
		return fmt.Errorf("ttl cannot be negative")
	}

	locator, err := newLocator()
	if err != nil {
		return err
	}
	rec := &Record{
		Key:       key,
		Value:     value,
		ExpiresAt: c.now().Add(ttl).UnixMilli(),
		Size:      int64(len(value)),
	}
	data, err := c.codec.Encode(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record for key %q: %w", key, err)
	}
	size := int64(len(data))
	if c.config.MaxSizeBytes > 0 && size > c.config.MaxSizeBytes {
		return fmt.Errorf("record for key %q is %d bytes: %w", key, size, ErrEntryTooLarge)
	}

	lock := c.lockKey(key)
	lock.Lock()
	defer lock.Unlock()

	// Replacing a key reclaims its space before the budget check runs.
	if prev, ok := c.index.Remove(key); ok {
		if err := c.store.Delete(ctx, prev.Locator); err != nil {
			c.index.Put(key, prev)
			return err
		}
		c.metrics.Evict(EvictReplaced)
	}

	c.evictFor(ctx, size)

	if err := c.store.Write(ctx, locator, data); err != nil {
		return err
	}
	c.index.Put(key, Descriptor{
		Locator:   locator,
		ExpiresAt: time.UnixMilli(rec.ExpiresAt),
		Size:      size,
	})

	c.metrics.Size(c.index.Len(), c.index.Size())
	c.logger.Debug(ctx, "cache entry stored",
		"operation", string(OpSet), "key", key, "size", size, "ttl", ttl)
	return nil
}

// Get returns the value stored under key. The boolean reports whether a
// live entry was found; an expired entry is removed as a side effect and
// reported as absent. A record that exists but cannot be decoded yields an
// error wrapping ErrCorruptRecord.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}

	desc, ok := c.index.Get(key)
	if !ok {
		c.miss(ctx, key)
		return nil, false, nil
	}
	if desc.IsExpired(c.now()) {
		c.expire(ctx, key, desc)
		c.miss(ctx, key)
		return nil, false, nil
	}

	data, err := c.store.Read(ctx, desc.Locator)
	if err != nil {
		if errors.Is(err, errRecordNotFound) {
			// The entry was replaced or removed between lookup and read.
			c.miss(ctx, key)
			return nil, false, nil
		}
		return nil, false, err
	}
	rec, err := c.codec.Decode(data)
	if err != nil {
		c.logger.Warn(ctx, "cache record decode failed", "key", key, "error", err)
		return nil, false, fmt.Errorf("failed to decode record for key %q: %w", key, ErrCorruptRecord)
	}

	c.stats.hits.Add(1)
	c.metrics.Hit()
	c.logger.Debug(ctx, "cache hit", "operation", string(OpGet), "key", key)
	return rec.Value, true, nil
}

// Delete removes the entry stored under key. Deleting an absent key is not
// an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}

	lock := c.lockKey(key)
	lock.Lock()
	defer lock.Unlock()

	desc, ok := c.index.Get(key)
	if !ok {
		return nil
	}
	if err := c.store.Delete(ctx, desc.Locator); err != nil {
		return err
	}
	if _, removed := c.index.RemoveIf(key, desc.Locator); removed {
		c.metrics.Evict(EvictManual)
		c.metrics.Size(c.index.Len(), c.index.Size())
	}
	c.logger.Debug(ctx, "cache entry deleted", "operation", string(OpDelete), "key", key)
	return nil
}

// Keys returns a snapshot of all indexed keys. The snapshot may include
// entries whose TTL has passed but which have not been touched since; it
// returns nil on a closed cache.
func (c *Cache) Keys() []string {
	if c.closed.Load() {
		return nil
	}
	return c.index.Keys()
}

// Len returns the number of indexed entries.
func (c *Cache) Len() int {
	return c.index.Len()
}

// Reset removes entries. With keys given it is equivalent to Delete for
// each named key. With none it empties the cache entirely and sweeps the
// storage location for stray records the index no longer references.
func (c *Cache) Reset(ctx context.Context, keys ...string) error {
	if c.closed.Load() {
		return ErrClosed
	}

	if len(keys) > 0 {
		for _, key := range keys {
			if err := c.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	}

	var firstErr error
	for _, key := range c.index.Keys() {
		if err := c.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	// Records on disk but absent from the index are leftovers from crashes
	// or failed deletes; a full reset is the moment to sweep them.
	locators, err := c.store.List(ctx)
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
	} else {
		live := make(map[string]bool, c.index.Len())
		for _, desc := range c.index.Snapshot() {
			live[desc.Locator] = true
		}
		for _, locator := range locators {
			if live[locator] {
				continue
			}
			if err := c.store.Delete(ctx, locator); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if err := c.store.CleanupTemp(ctx); err != nil && firstErr == nil {
		firstErr = err
	}

	c.metrics.Size(c.index.Len(), c.index.Size())
	c.logger.Info(ctx, "cache reset", "operation", string(OpReset))
	if firstErr != nil {
		return fmt.Errorf("reset incomplete: %w", firstErr)
	}
	return nil
}

// Stats returns a point-in-time snapshot of cache state and counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:      c.index.Len(),
		SizeBytes:    c.index.Size(),
		MaxSizeBytes: c.config.MaxSizeBytes,
		Hits:         c.stats.hits.Load(),
		Misses:       c.stats.misses.Load(),
		Evictions:    c.stats.evictions.Load(),
		Expirations:  c.stats.expirations.Load(),
	}
}

// Config returns the configuration the cache was created with.
func (c *Cache) Config() Config {
	return c.config
}

// Close marks the cache closed. Subsequent operations return ErrClosed.
// Records remain in storage for the next instance to rehydrate from.
func (c *Cache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.logger.Info(context.Background(), "cache closed",
		"entries", c.index.Len(), "size", c.index.Size())
	return nil
}

// lockKey returns the mutex serializing mutations for key.
func (c *Cache) lockKey(key string) *sync.Mutex {
	lock, _ := c.keyLocks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// miss records a Get that found no live entry.
func (c *Cache) miss(ctx context.Context, key string) {
	c.stats.misses.Add(1)
	c.metrics.Miss()
	c.logger.Debug(ctx, "cache miss", "operation", string(OpGet), "key", key)
}

// expire removes an entry observed past its TTL. The descriptor's locator
// guards the removal, so a concurrent replace is never clobbered.
func (c *Cache) expire(ctx context.Context, key string, desc Descriptor) {
	removed, ok := c.index.RemoveIf(key, desc.Locator)
	if !ok {
		return
	}
	if err := c.store.Delete(ctx, removed.Locator); err != nil {
		c.logger.Warn(ctx, "failed to delete expired record", "key", key, "error", err)
	}
	c.stats.expirations.Add(1)
	c.metrics.Evict(EvictExpired)
	c.metrics.Size(c.index.Len(), c.index.Size())
	logEviction(ctx, c.logger, key, removed.Size, EvictExpired)
}

// evictFor frees space until an incoming record of the given size fits the
// budget. Expired entries go unconditionally; live entries go in policy
// order, re-checking the budget after each removal. Storage failures are
// logged and do not interrupt the sweep.
func (c *Cache) evictFor(ctx context.Context, incoming int64) {
	if c.config.MaxSizeBytes == 0 {
		return
	}
	if c.index.Size()+incoming <= c.config.MaxSizeBytes {
		return
	}

	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	now := c.now()
	entries := c.index.Snapshot()
	for _, key := range c.policy.SelectForEviction(entries, now) {
		desc, ok := entries[key]
		if !ok {
			continue
		}
		expired := desc.IsExpired(now)
		if !expired && c.index.Size()+incoming <= c.config.MaxSizeBytes {
			break
		}
		removed, ok := c.index.RemoveIf(key, desc.Locator)
		if !ok {
			continue
		}
		if err := c.store.Delete(ctx, removed.Locator); err != nil {
			c.logger.Warn(ctx, "failed to delete evicted record", "key", key, "error", err)
		}
		reason := EvictCapacity
		if expired {
			reason = EvictExpired
			c.stats.expirations.Add(1)
		} else {
			c.stats.evictions.Add(1)
		}
		c.metrics.Evict(reason)
		logEviction(ctx, c.logger, key, removed.Size, reason)
	}
	c.metrics.Size(c.index.Len(), c.index.Size())
}
