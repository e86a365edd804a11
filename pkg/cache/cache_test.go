package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, found, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || string(data) != "payload" {
		t.Errorf("Get() = (%q, %t), want (payload, true)", data, found)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Error("Get() after Delete() found = true, want false")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Error("Get() after expiry found = true, want false")
	}
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Error("Get() found = true, want false")
	}
}

func TestKeyerDeterministic(t *testing.T) {
	k := NewDefaultKeyer()
	a := k.RenderKey("modelhash", "layered", "png", 2.0)
	b := k.RenderKey("modelhash", "layered", "png", 2.0)
	if a != b {
		t.Errorf("RenderKey() not deterministic: %q vs %q", a, b)
	}
	c := k.RenderKey("modelhash", "layered", "svg", 2.0)
	if a == c {
		t.Error("RenderKey() collides across formats")
	}
}

func TestScopedKeyerPrefix(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:a:")
	key := scoped.RenderKey("h", "graph", "png")
	if want := "tenant:a:" + inner.RenderKey("h", "graph", "png"); key != want {
		t.Errorf("RenderKey() = %q, want %q", key, want)
	}
}

func TestRetryWithBackoffStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("boom")
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("RetryWithBackoff() error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 for a non-retryable error", calls)
	}
}

func TestHashStable(t *testing.T) {
	if Hash([]byte("x")) != Hash([]byte("x")) {
		t.Error("Hash() not deterministic")
	}
	if got := len(Hash([]byte("x"))); got != 64 {
		t.Errorf("len(Hash()) = %d, want 64", got)
	}
}
