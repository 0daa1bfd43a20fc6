package keychain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, opts ...RedisOption) (*RedisKeychain, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisKeychain(client, opts...), mr
}

func TestRedisKeychain_RoundTrip(t *testing.T) {
	kc, mr := newTestRedis(t)

	if err := kc.Set(KeyAccessToken, "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	raw, err := mr.Get(ServiceName + ":" + KeyAccessToken)
	if err != nil {
		t.Fatalf("expected prefixed key in redis: %v", err)
	}
	if raw != "abc" {
		t.Errorf("expected abc, got %s", raw)
	}

	value, err := kc.Get(KeyAccessToken)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "abc" {
		t.Errorf("expected abc, got %s", value)
	}

	if err := kc.Delete(KeyAccessToken); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kc.Get(KeyAccessToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisKeychain_DeleteMissing(t *testing.T) {
	kc, _ := newTestRedis(t)

	if err := kc.Delete("missing"); err != nil {
		t.Errorf("expected no error deleting a missing key, got %v", err)
	}
}

func TestRedisKeychain_TTL(t *testing.T) {
	kc, mr := newTestRedis(t, WithPrefix("test:"), WithTTL(time.Minute))

	if err := kc.Set(KeyUser, `{"id":1}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if ttl := mr.TTL("test:" + KeyUser); ttl != time.Minute {
		t.Errorf("expected 1m ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := kc.Get(KeyUser); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected entry to expire, got %v", err)
	}
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	kc, err := DialRedis(context.Background(), mr.Addr())
	if err != nil {
		t.Fatalf("DialRedis failed: %v", err)
	}
	defer func() { _ = kc.Close() }()

	if err := kc.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
}

func TestDialRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := DialRedis(context.Background(), addr); err == nil {
		t.Error("expected error for unreachable redis")
	}
}
