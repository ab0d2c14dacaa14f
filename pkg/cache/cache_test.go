package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	c, err := NewMemoryCache(8)
	if err != nil {
		t.Fatalf("NewMemoryCache() error: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "payload" {
		t.Errorf("Get() = %q, %v, %v", data, ok, err)
	}
}

func TestMemoryCache_MissingKey(t *testing.T) {
	c, _ := NewMemoryCache(8)
	defer c.Close()

	if _, ok, err := c.Get(context.Background(), "absent"); ok || err != nil {
		t.Errorf("Get(absent) = _, %v, %v, want miss", ok, err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c, _ := NewMemoryCache(8)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("old"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry should be a miss")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c, _ := NewMemoryCache(8)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("deleted entry should be a miss")
	}
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	c, _ := NewMemoryCache(2)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)
	c.Set(ctx, "c", []byte("3"), time.Minute)

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("capacity 2 cache should have evicted the oldest entry")
	}
	if _, ok, _ := c.Get(ctx, "c"); !ok {
		t.Error("newest entry should survive")
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := Key("render", "digraph G {}", "dot", "svg")
	b := Key("render", "digraph G {}", "dot", "svg")
	if a != b {
		t.Errorf("Key() not deterministic: %q vs %q", a, b)
	}

	other := Key("render", "digraph G {}", "neato", "svg")
	if a == other {
		t.Error("different inputs must not collide")
	}
}

func TestNullCache_NeverStores(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get() = _, %v, %v, want miss", ok, err)
	}
}
