package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewClientWithoutAddress(t *testing.T) {
	if c := NewClient(context.Background(), "", ""); c != nil {
		t.Fatalf("expected nil client when no address is configured")
	}
}

func TestNewClientUnreachable(t *testing.T) {
	if c := NewClient(context.Background(), "127.0.0.1:1", ""); c != nil {
		c.Close()
		t.Fatalf("expected nil client for an unreachable server")
	}
}

func TestRedisCacheReportsErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer client.Close()
	cache := NewRedisCache(client)

	ctx := context.Background()
	if err := cache.Set(ctx, "k", "v", time.Minute); err == nil {
		t.Fatalf("Set against a dead server should fail")
	}
	if _, err := cache.Get(ctx, "k"); err == nil {
		t.Fatalf("Get against a dead server should fail")
	}
	if err := cache.Del(ctx, "k"); err == nil {
		t.Fatalf("Del against a dead server should fail")
	}
}
