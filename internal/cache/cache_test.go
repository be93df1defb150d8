package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/avelazco/contactdeck/internal/cache"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("unexpected hit on empty cache")
	}

	c.Set(ctx, "k", []byte(`[1,2,3]`))

	val, ok := c.Get(ctx, "k")
	if !ok || string(val) != `[1,2,3]` {
		t.Fatalf("got %q %v, want cached value", val, ok)
	}

	c.Delete(ctx, "k")

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("value survived delete")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := cache.NewMemory(10 * time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("expired entry still served")
	}
}
