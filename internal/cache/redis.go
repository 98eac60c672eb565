package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const purgeScanCount = 200

// Redis is a Store shared by every replica.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedis(client *redis.Client, log *zap.Logger) *Redis {
	return &Redis{client: client, log: log}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *Redis) Purge(ctx context.Context, prefix string) {
	iter := r.client.Scan(ctx, 0, prefix+"*", purgeScanCount).Iterator()
	batch := make([]string, 0, purgeScanCount)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			r.log.Warn("cache purge failed", zap.String("prefix", prefix), zap.Error(err))
		}
		batch = batch[:0]
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= purgeScanCount {
			flush()
		}
	}
	flush()
	if err := iter.Err(); err != nil {
		r.log.Warn("cache purge scan failed", zap.String("prefix", prefix), zap.Error(err))
	}
}
