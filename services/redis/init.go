package redis

import (
	"fmt"
	"log"
)

// InitRedis initializes the Redis connection and basic configuration
func InitRedis(addr string, db int) (*RedisClient, error) {
	rc := NewRedisClient(addr, db)

	// Test connection
	if err := rc.client.Ping(rc.ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Successfully connected to Redis")
	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %w", err)
	}
	return nil
}
