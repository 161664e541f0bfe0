package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "hotelfetch")
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func TestRedisStore_GetSet(t *testing.T) {
	mr, s := newTestRedis(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = ok %v, err %v; want miss", ok, err)
	}

	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("Get = %q, ok %v, err %v", got, ok, err)
	}

	if !mr.Exists("hotelfetch:k") {
		t.Error("expected prefixed key in redis")
	}
	if ttl := mr.TTL("hotelfetch:k"); ttl != 0 {
		t.Errorf("TTL = %v, want none", ttl)
	}
}

func TestRedisStore_Ping(t *testing.T) {
	mr, s := newTestRedis(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	mr.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping should fail after server closed")
	}
}

func TestRedisStore_BackendError(t *testing.T) {
	mr, s := newTestRedis(t)
	mr.SetError("boom")

	if _, _, err := s.Get(context.Background(), "k"); err == nil {
		t.Error("Get should surface backend error")
	}
	if err := s.Set(context.Background(), "k", "v"); err == nil {
		t.Error("Set should surface backend error")
	}
}
