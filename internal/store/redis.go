package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore handles Redis operations for rate limiting and unread counters.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Client returns the underlying Redis client.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// unreadKey returns the key for a profile's unread message counter.
func unreadKey(profileID string) string {
	return fmt.Sprintf("unread:%s", profileID)
}

// IncrUnread increments the unread counter for a recipient.
func (s *RedisStore) IncrUnread(ctx context.Context, profileID string) error {
	return s.client.Incr(ctx, unreadKey(profileID)).Err()
}

// FetchAndClearUnread returns the unread count for a profile and resets it.
func (s *RedisStore) FetchAndClearUnread(ctx context.Context, profileID string) (int64, error) {
	key := unreadKey(profileID)

	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	pipe.Del(ctx, key)
	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return 0, err
	}

	count, err := getCmd.Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
