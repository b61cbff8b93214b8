package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type row struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := []row{{Name: "zscore", Value: 2.5}, {Name: "spread", Value: -1.2}}
	if err := mc.Set(ctx, "stats:10", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out []row
	if err := mc.Get(ctx, "stats:10", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out) != 2 || out[0].Name != "zscore" || out[1].Value != -1.2 {
		t.Fatalf("unexpected round trip result: %+v", out)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var out row
	err := mc.Get(context.Background(), "nope", &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", row{Name: "x"}, 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	var out row
	if err := mc.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "stats:10", row{}, time.Minute)
	_ = mc.Set(ctx, "stats:20", row{}, time.Minute)
	_ = mc.Set(ctx, "other", row{}, time.Minute)

	if err := mc.DeleteByPattern(ctx, "stats:*"); err != nil {
		t.Fatalf("delete by pattern: %v", err)
	}

	var out row
	if err := mc.Get(ctx, "stats:10", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected stats:10 deleted")
	}
	if err := mc.Get(ctx, "other", &out); err != nil {
		t.Fatalf("expected other key to survive, got %v", err)
	}
}
