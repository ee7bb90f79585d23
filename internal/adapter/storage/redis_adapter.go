package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chainCountKeyPrefix  = "chaincount:"
	activityKeyPrefix    = "activity:"
	idempotencyKeyPrefix = "seen:"
	idempotencyKeyTTL    = 24 * time.Hour
	chainCountTTL        = 30 * time.Second
)

// RedisAdapter is the optional cache backend: idempotency guards for mint
// reports, the last good chain counter, and explorer response caching.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, idempotencyKeyTTL).Result()
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}

func (r *RedisAdapter) SetChainCount(ctx context.Context, collection string, count int64) error {
	return r.client.Set(ctx, chainCountKeyPrefix+collection, count, chainCountTTL).Err()
}

func (r *RedisAdapter) GetChainCount(ctx context.Context, collection string) (int64, bool, error) {
	count, err := r.client.Get(ctx, chainCountKeyPrefix+collection).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (r *RedisAdapter) SetActivity(ctx context.Context, address string, payload []byte, ttl time.Duration) error {
	return r.client.Set(ctx, activityKeyPrefix+address, payload, ttl).Err()
}

func (r *RedisAdapter) GetActivity(ctx context.Context, address string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, activityKeyPrefix+address).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}
