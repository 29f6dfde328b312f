package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aria-hq/chatbridge/pkg/providers"
)

// Redis is a response cache backed by a Redis server. It is the backend for
// multi-worker deployments: expiry is enforced server-side by Redis TTLs,
// and all workers share one view of the cache.
type Redis struct {
	client *redis.Client

	// keyPrefix namespaces cache keys so the cache can share a Redis
	// database with other application state.
	keyPrefix string
}

// redisKeyPrefix namespaces response-cache keys.
const redisKeyPrefix = "chatbridge:response:"

// NewRedis creates a Redis-backed response cache. It pings the server once
// so a misconfigured address fails at startup, not on first use.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &Redis{
		client:    client,
		keyPrefix: redisKeyPrefix,
	}, nil
}

// Get returns the cached response for the fingerprint. Redis drops expired
// keys itself, so absence covers both missing and expired entries.
func (r *Redis) Get(ctx context.Context, fingerprint string) (*providers.Response, bool, error) {
	payload, err := r.client.Get(ctx, r.keyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get failed: %w", err)
	}

	var resp providers.Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, false, fmt.Errorf("cache entry decode failed: %w", err)
	}

	return &resp, true, nil
}

// Set stores a response with a server-side TTL.
func (r *Redis) Set(ctx context.Context, fingerprint string, resp *providers.Response, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cache entry encode failed: %w", err)
	}

	if err := r.client.Set(ctx, r.keyPrefix+fingerprint, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete removes an entry.
func (r *Redis) Delete(ctx context.Context, fingerprint string) error {
	if err := r.client.Del(ctx, r.keyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Clear removes all entries under the cache prefix, leaving unrelated keys
// in the database untouched.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache clear failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache clear scan failed: %w", err)
	}
	return nil
}

// Len returns the number of live entries under the cache prefix.
func (r *Redis) Len(ctx context.Context) (int, error) {
	var n int
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("cache len scan failed: %w", err)
	}
	return n, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
