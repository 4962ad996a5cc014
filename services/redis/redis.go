package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the go-redis client together with the context used
// for every call.
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisClient(addr string, db int) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
		ctx: context.Background(),
	}
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return err
		}
	}
	return nil
}
