package storage

import (
	"context"
	"fmt"

	"orderledger/internal/app/redis"
)

// RedisStore adapts the redis client to BlobStore.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, found, err := s.client.GetBlob(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.PutBlob(ctx, key, data); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.DeleteBlob(ctx, key); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
