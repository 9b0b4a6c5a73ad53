package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogsync/internal/config"

	"github.com/redis/go-redis/v9"
)

var ErrEmptyAddress = errors.New("redis address is required")

const connectionTimeout = 5 * time.Second

// NewRedisClient подключается к Redis и проверяет соединение.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddress == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisStore: запись: строка page:{path}, тег: множество tag:{tag} с ключами записей.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, path string) ([]byte, error) {
	raw, err := s.client.Get(ctx, pagePrefix+path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", path, err)
	}
	return raw, nil
}

func (s *RedisStore) Set(ctx context.Context, path string, value []byte, tags ...string) error {
	key := pagePrefix + path
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, s.ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, tagPrefix+tag, key)
			if s.ttl > 0 {
				pipe.Expire(ctx, tagPrefix+tag, s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) InvalidatePath(ctx context.Context, path string) error {
	if err := s.client.Del(ctx, pagePrefix+path).Err(); err != nil {
		return fmt.Errorf("redis invalidate path %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) InvalidateTag(ctx context.Context, tag string) error {
	setKey := tagPrefix + tag
	keys, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("redis invalidate tag %s: %w", tag, err)
	}
	keys = append(keys, setKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis invalidate tag %s: %w", tag, err)
	}
	return nil
}
