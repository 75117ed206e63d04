package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	errs "github.com/wrtgvr/rimdash-connect/internal/errors"
)

type RedisStorage struct {
	client *redis.Client
}

// OpenRedis connects to the Redis server described by a redis:// URL and
// pings it.
func OpenRedis(ctx context.Context, urlStr string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	s := NewRedisStorage(redis.NewClient(opts))
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return s, nil
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key_Value(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", errs.NewInternalError(fmt.Errorf("failed to get value: key=%s, err=%w", key, err))
	}
	return v, nil
}

func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	//* prepare pipeline
	pipe := s.client.TxPipeline()

	pipe.Set(ctx, s.key_Value(key), value, 0)
	pipe.HSet(ctx, s.key_Meta(key),
		KVMeta_HSet_UpdatedAt, time.Now().Format(time.RFC3339))

	//* execute
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.NewInternalError(fmt.Errorf("pipe execution failed: key=%s, err=%w", key, err))
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (s *RedisStorage) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	v, err := s.client.HGet(ctx, s.key_Meta(key), KVMeta_HSet_UpdatedAt).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, errs.NewInternalError(fmt.Errorf("failed to get meta: key=%s, err=%w", key, err))
	}
	return time.Parse(time.RFC3339, v)
}
