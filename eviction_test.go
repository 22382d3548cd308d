package diskcache

import (
	"reflect"
	"testing"
	"time"
)

func TestExpiryEvictionPolicy_Order(t *testing.T) {
	now := time.Unix(1000, 0)
	entries := map[string]Descriptor{
		"live-far":    {ExpiresAt: now.Add(100 * time.Second)},
		"live-near":   {ExpiresAt: now.Add(10 * time.Second)},
		"expired-old": {ExpiresAt: now.Add(-50 * time.Second)},
		"expired-new": {ExpiresAt: now.Add(-1 * time.Second)},
	}

	got := NewExpiryEvictionPolicy().SelectForEviction(entries, now)
	want := []string{"expired-old", "expired-new", "live-far", "live-near"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectForEviction() = %v, want %v", got, want)
	}
}

func TestExpiryEvictionPolicy_BoundaryIsLive(t *testing.T) {
	now := time.Unix(1000, 0)
	entries := map[string]Descriptor{
		"at-now": {ExpiresAt: now},
		"future": {ExpiresAt: now.Add(time.Second)},
	}

	// An entry expiring exactly at now is live, so the future entry leads.
	got := NewExpiryEvictionPolicy().SelectForEviction(entries, now)
	want := []string{"future", "at-now"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectForEviction() = %v, want %v", got, want)
	}
}

func TestExpiryEvictionPolicy_TieBreaksByKey(t *testing.T) {
	now := time.Unix(1000, 0)
	expiry := now.Add(time.Minute)
	entries := map[string]Descriptor{
		"b": {ExpiresAt: expiry},
		"a": {ExpiresAt: expiry},
		"c": {ExpiresAt: expiry},
	}

	got := NewExpiryEvictionPolicy().SelectForEviction(entries, now)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectForEviction() = %v, want %v", got, want)
	}
}

func TestSizeEvictionPolicy_Order(t *testing.T) {
	now := time.Unix(1000, 0)
	entries := map[string]Descriptor{
		"small":   {ExpiresAt: now.Add(time.Minute), Size: 10},
		"big":     {ExpiresAt: now.Add(time.Minute), Size: 1000},
		"medium":  {ExpiresAt: now.Add(time.Minute), Size: 100},
		"expired": {ExpiresAt: now.Add(-time.Second), Size: 1},
	}

	got := NewSizeEvictionPolicy().SelectForEviction(entries, now)
	want := []string{"expired", "big", "medium", "small"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectForEviction() = %v, want %v", got, want)
	}
}

func TestEvictionPolicies_EmptyInput(t *testing.T) {
	now := time.Unix(1000, 0)
	if got := NewExpiryEvictionPolicy().SelectForEviction(nil, now); len(got) != 0 {
		t.Errorf("expiry policy on empty input = %v, want empty", got)
	}
	if got := NewSizeEvictionPolicy().SelectForEviction(nil, now); len(got) != 0 {
		t.Errorf("size policy on empty input = %v, want empty", got)
	}
}
