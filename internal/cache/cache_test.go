package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got map[string]string
	ok, err := c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if got["a"] != "b" {
		t.Fatalf("expected b, got %q", got["a"])
	}
}

func TestMemoryMiss(t *testing.T) {
	c := NewMemory()
	var got string
	ok, err := c.Get(context.Background(), "missing", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got string
	ok, err := c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestMemoryClear(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", time.Minute)
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	var got string
	ok, _ := c.Get(ctx, "k", &got)
	if ok {
		t.Fatal("expected empty cache after Clear")
	}
}
