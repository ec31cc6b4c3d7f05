package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestLockStore_AcquireOrderLock_RedisDown(t *testing.T) {
	t.Parallel()

	store := NewLockStore(unreachableClient(t))

	token, ok, err := store.AcquireOrderLock(context.Background(), "ORD-1", time.Second)
	if err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
	if ok || token != "" {
		t.Errorf("expected no lock, got ok=%v token=%q", ok, token)
	}
}

func TestLockStore_ReleaseOrderLock_RedisDown(t *testing.T) {
	t.Parallel()

	store := NewLockStore(unreachableClient(t))

	if err := store.ReleaseOrderLock(context.Background(), "ORD-1", "token"); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}
