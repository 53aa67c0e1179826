package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements document storage over Redis, one JSON blob per
// document under a "doc:" keyspace.
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

	return &RedisStore{client: client, prefix: "doc:"}, nil
}

// NewRedisStoreWithClient wraps an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "doc:"}
}

func (s *RedisStore) key(collection, key string) string {
	return s.prefix + collection + ":" + key
}

func (s *RedisStore) GetDocument(ctx context.Context, collection, key string) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, s.key(collection, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s/%s: %w", collection, key, err)
	}
	return raw, nil
}

func (s *RedisStore) SetDocument(ctx context.Context, collection, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.client.Set(ctx, s.key(collection, key), raw, 0).Err(); err != nil {
		return fmt.Errorf("set document %s/%s: %w", collection, key, err)
	}
	return nil
}

// UpdateDocument reads, merges and rewrites the blob. The session scope has
// a single logical writer per document, so no WATCH is needed.
func (s *RedisStore) UpdateDocument(ctx context.Context, collection, key string, fields map[string]any) error {
	raw, err := s.GetDocument(ctx, collection, key)
	if err != nil {
		return err
	}
	merged, err := mergeDocument(raw, fields)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(collection, key), []byte(merged), 0).Err(); err != nil {
		return fmt.Errorf("update document %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
