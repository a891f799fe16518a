package cache

import (
	"testing"
	"time"
)

const programKey = "https://tvapi.nrk.no/v1/programs/MSUI28008021"

func newMemoryTestCache(t *testing.T, size int, onEvict EvictCallback) Cache {
	t.Helper()
	c, err := New(ProviderMemory, ProviderConfig{Size: size, TTL: time.Hour, OnEvict: onEvict})
	if err != nil {
		t.Fatalf("New memory cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := newMemoryTestCache(t, 10, nil)

	if val, ok := c.Get(programKey); ok || val != nil {
		t.Fatalf("Expected miss with nil value, got %v, %v", val, ok)
	}

	c.Set(programKey, []byte(`{"title":"Lindmo"}`))
	val, ok := c.Get(programKey)
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if string(val) != `{"title":"Lindmo"}` {
		t.Fatalf("Unexpected cached value %q", string(val))
	}
	if !c.Contains(programKey) {
		t.Fatal("Expected key to be contained")
	}
}

func TestMemoryCache_OverwriteKeepsSingleEntry(t *testing.T) {
	c := newMemoryTestCache(t, 10, nil)

	c.Set(programKey, []byte("v1"))
	c.Set(programKey, []byte("v2"))

	val, _ := c.Get(programKey)
	if string(val) != "v2" {
		t.Fatalf("Expected v2, got %s", string(val))
	}
	if c.Len() != 1 {
		t.Fatalf("Expected Len 1 after overwrite, got %d", c.Len())
	}
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := newMemoryTestCache(t, 2, func(key string, _ []byte) {
		evicted = append(evicted, key)
	})

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	_, _ = c.Get("a") // "b" becomes the oldest
	c.Set("c", []byte("3"))

	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("Expected eviction of 'b', got %v", evicted)
	}
	if !c.Contains("a") || !c.Contains("c") {
		t.Fatal("Keys 'a' and 'c' should still be present")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c, err := New(ProviderMemory, ProviderConfig{Size: 10, TTL: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set(programKey, []byte("x"))
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get(programKey); ok {
		t.Fatal("Expected entry to expire after TTL")
	}
}
