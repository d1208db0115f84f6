package repository

import (
	"context"
	"edusphere_backend/internal/util"
	"errors"

	"github.com/go-redis/redis/v8"
)

// RedisStore 每个键一个字符串值，键名带统一前缀
type RedisStore struct {
	Redis  *redis.Client
	Prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{Redis: rdb, Prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.Redis.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrKeyNotFound
	}
	return data, err
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return s.Redis.Set(ctx, s.Prefix+key, value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.Prefix + k
	}
	return s.Redis.Del(ctx, full...).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Redis.Ping(ctx).Err()
}

func (s *RedisStore) Name() string { return util.StoreRedis }
