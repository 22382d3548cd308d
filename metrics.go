package diskcache

import "sync/atomic"

// EvictReason explains why an entry was removed from the cache.
type EvictReason int

const (
	// EvictExpired marks an entry whose TTL had passed.
	EvictExpired EvictReason = iota
	// EvictCapacity marks an entry removed to bring the cache under its
	// size budget.
	EvictCapacity
	// EvictReplaced marks an entry displaced by a Set on the same key.
	EvictReplaced
	// EvictManual marks an entry removed by Delete or Reset.
	EvictManual
)

// String returns a stable label for the reason.
func (r EvictReason) String() string {
	switch r {
	case EvictExpired:
		return "expired"
	case EvictCapacity:
		return "capacity"
	case EvictReplaced:
		return "replaced"
	case EvictManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Metrics receives cache observability events. Implementations must be safe
// for concurrent use; the prom subpackage provides a Prometheus adapter.
type Metrics interface {
	// Hit records a Get that returned a live value.
	Hit()
	// Miss records a Get for an absent or expired key.
	Miss()
	// Evict records an entry removal with its reason.
	Evict(reason EvictReason)
	// Size records the entry count and total serialized bytes after a
	// mutation.
	Size(entries int, bytes int64)
}

// NopMetrics discards all events. It is the default Metrics implementation.
type NopMetrics struct{}

func (NopMetrics) Hit()              {}
func (NopMetrics) Miss()             {}
func (NopMetrics) Evict(EvictReason) {}
func (NopMetrics) Size(int, int64)   {}

var _ Metrics = NopMetrics{}

// Stats is a point-in-time snapshot of cache state and operation totals.
type Stats struct {
	// Entries is the number of indexed entries.
	Entries int
	// SizeBytes is the summed serialized size of all indexed entries.
	SizeBytes int64
	// MaxSizeBytes is the configured budget; zero means unlimited.
	MaxSizeBytes int64
	// Hits counts Gets that returned a live value.
	Hits int64
	// Misses counts Gets for absent or expired keys.
	Misses int64
	// Evictions counts removals made to satisfy the size budget.
	Evictions int64
	// Expirations counts removals of entries whose TTL had passed.
	Expirations int64
}

// counters tracks operation totals for Stats.
type counters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64
}
