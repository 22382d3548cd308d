package diskcache

import (
	"sort"
	"time"
)

// EvictionPolicy decides which entries to remove, and in what order, when an
// insert would push the cache over its size budget.
type EvictionPolicy interface {
	// SelectForEviction returns keys ordered by eviction priority. Entries
	// already expired at now must come first; the cache removes those
	// unconditionally and stops at the first live key once back under
	// budget.
	SelectForEviction(entries map[string]Descriptor, now time.Time) []string
}

// ExpiryEvictionPolicy is the default policy. Expired entries lead, soonest
// expiry first. Live entries follow ordered by expiry descending, so the
// entries with the longest remaining lifetime go before ones about to lapse
// on their own.
type ExpiryEvictionPolicy struct{}

// NewExpiryEvictionPolicy creates the default expiry-ordered policy.
func NewExpiryEvictionPolicy() *ExpiryEvictionPolicy {
	return &ExpiryEvictionPolicy{}
}

// SelectForEviction returns expired keys soonest-first, then live keys with
// the furthest expiry first.
func (p *ExpiryEvictionPolicy) SelectForEviction(entries map[string]Descriptor, now time.Time) []string {
	expired, live := splitExpired(entries, now)
	sort.SliceStable(expired, func(i, j int) bool {
		return entries[expired[i]].ExpiresAt.Before(entries[expired[j]].ExpiresAt)
	})
	sort.SliceStable(live, func(i, j int) bool {
		return entries[live[i]].ExpiresAt.After(entries[live[j]].ExpiresAt)
	})
	return append(expired, live...)
}

// SizeEvictionPolicy frees space with the fewest removals. Expired entries
// lead as always; live entries follow largest first.
type SizeEvictionPolicy struct{}

// NewSizeEvictionPolicy creates a size-ordered policy.
func NewSizeEvictionPolicy() *SizeEvictionPolicy {
	return &SizeEvictionPolicy{}
}

// SelectForEviction returns expired keys soonest-first, then live keys with
// the largest serialized size first.
func (p *SizeEvictionPolicy) SelectForEviction(entries map[string]Descriptor, now time.Time) []string {
	expired, live := splitExpired(entries, now)
	sort.SliceStable(expired, func(i, j int) bool {
		return entries[expired[i]].ExpiresAt.Before(entries[expired[j]].ExpiresAt)
	})
	sort.SliceStable(live, func(i, j int) bool {
		return entries[live[i]].Size > entries[live[j]].Size
	})
	return append(expired, live...)
}

// splitExpired partitions keys into expired and live groups, each sorted by
// key so the policy sorts above stay deterministic across equal timestamps.
func splitExpired(entries map[string]Descriptor, now time.Time) (expired, live []string) {
	for key, desc := range entries {
		if desc.IsExpired(now) {
			expired = append(expired, key)
		} else {
			live = append(live, key)
		}
	}
	sort.Strings(expired)
	sort.Strings(live)
	return expired, live
}

var (
	_ EvictionPolicy = (*ExpiryEvictionPolicy)(nil)
	_ EvictionPolicy = (*SizeEvictionPolicy)(nil)
)
