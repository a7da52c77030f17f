package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each user's document under a "user:" key, mirroring
// the original KV deployment's key scheme.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "user:"}, nil
}

// NewRedisStoreWithClient wraps an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "user:"}
}

func (s *RedisStore) key(username string) string {
	return s.prefix + username
}

// Load returns the stored document, or ErrNotFound.
func (s *RedisStore) Load(ctx context.Context, username string) (string, error) {
	value, err := s.client.Get(ctx, s.key(username)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load document: %w", err)
	}
	return value, nil
}

// Save replaces the stored document. Documents never expire.
func (s *RedisStore) Save(ctx context.Context, username, markdown string) error {
	if err := s.client.Set(ctx, s.key(username), markdown, 0).Err(); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
