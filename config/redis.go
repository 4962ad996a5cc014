package config

import (
	"log"
	"os"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/redis"
)

// ConnectRedis connects to the Redis instance pointed at by REDIS_URL
func ConnectRedis() (*redis.RedisClient, error) {
	redisURI := os.Getenv("REDIS_URL")
	if redisURI == "" {
		redisURI = "localhost:6379"
	}
	redisClient, err := redis.InitRedis(redisURI, 0)
	if err != nil {
		return nil, err
	}
	log.Println("Redis connection established")
	return redisClient, nil
}
