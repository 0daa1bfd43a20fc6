package keychain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKeychain keeps session entries in Redis so several headless clients
// can share one login.
type RedisKeychain struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// RedisOption configures a RedisKeychain
type RedisOption func(*RedisKeychain)

// WithPrefix namespaces every key. The default is ServiceName + ":".
func WithPrefix(prefix string) RedisOption {
	return func(r *RedisKeychain) { r.prefix = prefix }
}

// WithTTL expires entries after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *RedisKeychain) { r.ttl = ttl }
}

// NewRedisKeychain wraps an existing client.
func NewRedisKeychain(client redis.UniversalClient, opts ...RedisOption) *RedisKeychain {
	r := &RedisKeychain{
		client:  client,
		prefix:  ServiceName + ":",
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DialRedis connects to addr and checks the connection with PING.
func DialRedis(ctx context.Context, addr string, opts ...RedisOption) (*RedisKeychain, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("keychain: redis ping: %w", err)
	}
	return NewRedisKeychain(client, opts...), nil
}

// Set stores a value in Redis
func (r *RedisKeychain) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store in redis: %w", err)
	}
	return nil
}

// Get retrieves a value from Redis
func (r *RedisKeychain) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to retrieve from redis: %w", err)
	}
	return value, nil
}

// Delete removes a value from Redis
func (r *RedisKeychain) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (r *RedisKeychain) Close() error {
	return r.client.Close()
}
