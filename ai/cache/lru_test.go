package cache

import (
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRUCache[string, int](4, time.Minute)
	c.SetWithDefaultTTL("a", 1)
	c.SetWithDefaultTTL("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[string, int](2, time.Minute)
	c.SetWithDefaultTTL("a", 1)
	c.SetWithDefaultTTL("b", 2)
	// Touch "a" so "b" becomes the eviction candidate.
	c.Get("a")
	c.SetWithDefaultTTL("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRUExpiration(t *testing.T) {
	c := NewLRUCache[string, string](10, time.Minute)
	c.Set("k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to be a miss")
	}
}

func TestLRUUpdateExisting(t *testing.T) {
	c := NewLRUCache[string, int](2, time.Minute)
	c.SetWithDefaultTTL("a", 1)
	c.SetWithDefaultTTL("a", 2)

	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("expected updated value 2, got %d", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRURemoveAndClear(t *testing.T) {
	c := NewLRUCache[string, int](4, time.Minute)
	c.SetWithDefaultTTL("a", 1)

	if !c.Remove("a") {
		t.Error("expected Remove to report true for existing key")
	}
	if c.Remove("a") {
		t.Error("expected Remove to report false for missing key")
	}

	c.SetWithDefaultTTL("b", 2)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}
