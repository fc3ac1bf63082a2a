package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedis_SetGetDelete(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	c := NewRedis(RedisConfig{Addr: addr, TTL: time.Minute}, nil)
	t.Cleanup(func() { _ = c.Close() })

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	key := "test:" + uuid.NewString()

	if _, ok := c.Get(ctx, key); ok {
		t.Fatalf("expected miss for fresh key")
	}

	c.Set(ctx, key, []byte("v"))

	got, ok := c.Get(ctx, key)
	if !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v; want v, true", got, ok)
	}

	c.Delete(ctx, key)

	if _, ok := c.Get(ctx, key); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestRedis_UnreachableIsMiss(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c := NewRedis(RedisConfig{Addr: "127.0.0.1:1", TTL: time.Minute}, nil)
	t.Cleanup(func() { _ = c.Close() })

	c.Set(ctx, "k", []byte("v"))

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("expected miss when redis is unreachable")
	}
}
