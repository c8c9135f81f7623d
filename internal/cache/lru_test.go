package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestNewLRU(t *testing.T) {
	c := NewLRU[string](10, 0)

	if c.capacity != 10 {
		t.Errorf("expected capacity 10, got %d", c.capacity)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got length %d", c.Len())
	}
	if NewLRU[string](0, 0).capacity != 1 {
		t.Error("expected capacity to be clamped to 1")
	}
}

func TestLRU_SetAndGet(t *testing.T) {
	c := NewLRU[string](10, 0)

	c.Set("key1", "value1")
	c.Set("key1", "value2")

	value, found := c.Get("key1")
	if !found {
		t.Fatal("expected to find key1")
	}
	if value != "value2" {
		t.Errorf("expected 'value2', got '%s'", value)
	}
	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](3, 0)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")
	c.Set("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("expected b to be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, found := c.Get(k); !found {
			t.Errorf("expected %s to survive", k)
		}
	}
	if c.Len() != 3 {
		t.Errorf("expected length 3, got %d", c.Len())
	}
}

func TestLRU_Expiry(t *testing.T) {
	c := NewLRU[string](10, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")

	now = now.Add(59 * time.Second)
	if _, found := c.Get("k"); !found {
		t.Error("expected entry before ttl")
	}

	now = now.Add(time.Second)
	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire at ttl")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, got length %d", c.Len())
	}
}

func TestLRU_DeleteAndPurge(t *testing.T) {
	c := NewLRU[string](10, 0)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Delete("a")
	c.Delete("never-set")
	if _, found := c.Get("a"); found {
		t.Error("expected a to be deleted")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after purge, got %d", c.Len())
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](50, 0)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := strconv.Itoa((g*200 + i) % 75)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("expected at most 50 entries, got %d", c.Len())
	}
}
