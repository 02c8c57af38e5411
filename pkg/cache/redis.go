package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"importexport-hub/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const scanCount = 100

// Redis is a Cache backed by a Redis server
type Redis struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
	log       *zap.Logger
}

// NewRedisClient builds a client from configuration and pings it
func NewRedisClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedis wraps client; every key is stored under namespace
func NewRedis(client redis.UniversalClient, namespace string, ttl time.Duration, log *zap.Logger) *Redis {
	return &Redis{client: client, namespace: namespace, ttl: ttl, log: log}
}

func (r *Redis) key(k string) string {
	return r.namespace + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		r.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.log.Warn("Cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), payload, r.ttl).Err(); err != nil {
		r.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *Redis) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.key(prefix)+"*", scanCount).Result()
		if err != nil {
			r.log.Warn("Cache invalidation scan failed", zap.String("prefix", prefix), zap.Error(err))
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.log.Warn("Cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
