package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 11, 2, 14, 30, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCache_SetAndGet(t *testing.T) {
	c := New(1*time.Second, WithSweepInterval(0))
	defer c.Close()

	c.Set("key1", []byte(`{"id":1}`))

	val, found := c.Get("key1")
	if !found {
		t.Fatal("Expected to find key1")
	}
	if string(val) != `{"id":1}` {
		t.Errorf("Expected payload, got %s", val)
	}
}

func TestCache_Expiration(t *testing.T) {
	clock := newFakeClock()
	c := New(5*time.Minute, WithClock(clock.Now), WithSweepInterval(0))
	defer c.Close()

	c.Set("key1", []byte("value1"))

	clock.Advance(5*time.Minute - time.Millisecond)
	if _, found := c.Get("key1"); !found {
		t.Error("Expected key1 to be fresh just before the TTL")
	}

	clock.Advance(time.Millisecond)
	if _, found := c.Get("key1"); found {
		t.Error("Expected key1 to be expired once age reaches the TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be removed on read, got %d entries", c.Len())
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(1*time.Second, WithSweepInterval(0))
	defer c.Close()

	c.Set("key1", []byte("value1"))
	c.Clear("key1")

	if _, found := c.Get("key1"); found {
		t.Error("Expected key1 to be cleared")
	}
}

func TestCache_ClearAll(t *testing.T) {
	c := New(time.Minute, WithSweepInterval(0))
	defer c.Close()

	c.Set("/Client?", []byte("a"))
	c.Set("/User?", []byte("b"))
	c.Set("/AlertConfiguration?clientId=global", []byte("c"))

	c.ClearAll()

	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got %d entries", c.Len())
	}
}

func TestCache_ZeroTTLDisablesCaching(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("key1", []byte("value1"))
	if _, found := c.Get("key1"); found {
		t.Error("Expected no caching with zero TTL")
	}
}

func TestCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	c := New(time.Minute, WithClock(clock.Now), WithSweepInterval(0))
	defer c.Close()

	c.Set("old", []byte("1"))
	clock.Advance(30 * time.Second)
	c.Set("young", []byte("2"))
	clock.Advance(31 * time.Second)

	if removed := c.Sweep(); removed != 1 {
		t.Errorf("Expected 1 eviction, got %d", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry left, got %d", c.Len())
	}
	if _, found := c.Get("young"); !found {
		t.Error("Expected young entry to survive the sweep")
	}
}

func TestCache_BackgroundSweep(t *testing.T) {
	c := New(20*time.Millisecond, WithSweepInterval(10*time.Millisecond))
	defer c.Close()

	c.Set("key1", []byte("value1"))

	deadline := time.Now().Add(time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected background sweep to evict the entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.Close()
	c.Close()
}
