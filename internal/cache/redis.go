package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares serialized results between server instances
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	obs    Observer
}

// ConnectRedis connects to Redis and verifies the connection
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.MaxRetries = 3

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a store writing keys under prefix
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, obs Observer) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, obs: obs}
}

// GetJSON decodes the value stored under key into dest.
// found is false on a miss; err reports transport or decode failures.
func (s *RedisStore) GetJSON(ctx context.Context, key string, dest interface{}) (found bool, err error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		if s.obs != nil {
			s.obs.CacheMiss("redis")
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value: %w", err)
	}
	if s.obs != nil {
		s.obs.CacheHit("redis")
	}
	return true, nil
}

// SetJSON stores value as JSON with the store TTL
func (s *RedisStore) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
