package diskcache

import (
	"sort"
	"testing"
	"time"
)

func TestMetaIndexAccounting(t *testing.T) {
	idx := newMetaIndex()

	idx.Put("a", Descriptor{Locator: "la", Size: 10})
	idx.Put("b", Descriptor{Locator: "lb", Size: 20})
	if got := idx.Size(); got != 30 {
		t.Errorf("Size() = %d, want 30", got)
	}
	if got := idx.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	prev, replaced := idx.Put("a", Descriptor{Locator: "la2", Size: 15})
	if !replaced || prev.Locator != "la" {
		t.Errorf("Put replace = (%+v, %v), want la descriptor", prev, replaced)
	}
	if got := idx.Size(); got != 35 {
		t.Errorf("Size() after replace = %d, want 35", got)
	}

	if _, ok := idx.Remove("b"); !ok {
		t.Error("Remove(b) reported absent")
	}
	if got := idx.Size(); got != 15 {
		t.Errorf("Size() after remove = %d, want 15", got)
	}

	if _, ok := idx.Remove("missing"); ok {
		t.Error("Remove(missing) reported present")
	}
	if got := idx.Size(); got != 15 {
		t.Errorf("Size() after absent remove = %d, want 15", got)
	}
}

func TestMetaIndexGet(t *testing.T) {
	idx := newMetaIndex()
	want := Descriptor{Locator: "loc", ExpiresAt: time.Unix(100, 0), Size: 7}
	idx.Put("k", want)

	got, ok := idx.Get("k")
	if !ok || got != want {
		t.Errorf("Get(k) = (%+v, %v), want (%+v, true)", got, ok, want)
	}
	if _, ok := idx.Get("absent"); ok {
		t.Error("Get(absent) reported present")
	}
}

func TestMetaIndexRemoveIf(t *testing.T) {
	idx := newMetaIndex()
	idx.Put("a", Descriptor{Locator: "loc1", Size: 5})

	if _, ok := idx.RemoveIf("a", "stale"); ok {
		t.Error("RemoveIf removed entry with a stale locator")
	}
	if got := idx.Size(); got != 5 {
		t.Errorf("Size() after stale RemoveIf = %d, want 5", got)
	}

	if _, ok := idx.RemoveIf("a", "loc1"); !ok {
		t.Error("RemoveIf with matching locator reported absent")
	}
	if got := idx.Size(); got != 0 {
		t.Errorf("Size() after RemoveIf = %d, want 0", got)
	}

	if _, ok := idx.RemoveIf("a", "loc1"); ok {
		t.Error("RemoveIf removed an already absent entry")
	}
}

func TestMetaIndexKeys(t *testing.T) {
	idx := newMetaIndex()
	idx.Put("b", Descriptor{Size: 1})
	idx.Put("a", Descriptor{Size: 1})

	keys := idx.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}
}

func TestMetaIndexSnapshotIsolated(t *testing.T) {
	idx := newMetaIndex()
	idx.Put("a", Descriptor{Locator: "la", Size: 1})

	snap := idx.Snapshot()
	snap["b"] = Descriptor{Locator: "lb", Size: 99}
	delete(snap, "a")

	if got := idx.Len(); got != 1 {
		t.Errorf("Len() after mutating snapshot = %d, want 1", got)
	}
	if _, ok := idx.Get("a"); !ok {
		t.Error("entry lost after mutating snapshot")
	}
}
