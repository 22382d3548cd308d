package diskcache

import (
	"fmt"
	"time"

	"github.com/jmgilman/go/fs/core"
)

// defaultTTL is applied when Config.DefaultTTL is left unset.
const defaultTTL = 60 * time.Second

// Config holds configuration for cache behavior.
type Config struct {
	// Path is the storage location for entry records. It is created if
	// absent.
	Path string

	// DefaultTTL is the lifetime Set applies when the caller gives no
	// per-entry TTL. Zero means the 60 second default; use SetWithTTL for
	// entries that should expire immediately.
	DefaultTTL time.Duration

	// MaxSizeBytes caps the total serialized size of all live entries.
	// Zero means unlimited and disables eviction.
	MaxSizeBytes int64

	// SkipRehydrate disables the startup scan that rebuilds the index
	// from records already in storage.
	SkipRehydrate bool
}

// Validate checks that the cache configuration is valid.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if c.DefaultTTL < 0 {
		return fmt.Errorf("default TTL cannot be negative")
	}
	if c.MaxSizeBytes < 0 {
		return fmt.Errorf("max size cannot be negative")
	}
	return nil
}

// SetDefaults applies default values to unset configuration fields.
func (c *Config) SetDefaults() {
	if c.DefaultTTL == 0 {
		c.DefaultTTL = defaultTTL
	}
}

// options collects the optional collaborators New assembles a cache from.
type options struct {
	fs               core.FS
	codec            Codec
	compress         bool
	logger           *Logger
	metrics          Metrics
	policy           EvictionPolicy
	now              func() time.Time
	rehydrateWorkers int
}

func defaultOptions() options {
	return options{
		codec:            JSONCodec{},
		metrics:          NopMetrics{},
		policy:           NewExpiryEvictionPolicy(),
		now:              time.Now,
		rehydrateWorkers: defaultRehydrateWorkers,
	}
}

// Option configures optional cache behavior.
type Option func(*options)

// WithFS sets the filesystem records are stored on. The default is the
// local filesystem; an in-memory filesystem keeps tests hermetic.
func WithFS(fsys core.FS) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithCodec sets the record serialization codec. The default encodes
// records as JSON.
func WithCodec(codec Codec) Option {
	return func(o *options) {
		if codec != nil {
			o.codec = codec
		}
	}
}

// WithCompression gzip-compresses records on disk. Records written with a
// different compression setting fail to decode and follow the corrupt
// record path.
func WithCompression() Option {
	return func(o *options) {
		o.compress = true
	}
}

// WithLogger sets the logger for cache operations. The default discards
// all messages.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics sink for cache events. The default discards
// all events.
func WithMetrics(metrics Metrics) Option {
	return func(o *options) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithEvictionPolicy sets the policy consulted when an insert would exceed
// the size budget. The default evicts entries with the furthest expiry
// first.
func WithEvictionPolicy(policy EvictionPolicy) Option {
	return func(o *options) {
		if policy != nil {
			o.policy = policy
		}
	}
}

// WithClock sets the time source used for expiry decisions. The default is
// time.Now; a fixed clock makes expiry deterministic in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRehydrateConcurrency bounds how many records are read and decoded in
// parallel during the startup scan. Values below one restore the default.
func WithRehydrateConcurrency(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.rehydrateWorkers = n
		}
	}
}
