package cache

import (
	"context"
	"log"

	"loyalty/internal/config"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Connect opens a redis client and verifies it with a ping. The caller
// decides whether a failure is fatal.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := NewRedisClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	log.Printf("Connected to Redis at %s (DB %d)", cfg.Addr(), cfg.DB)
	return client, nil
}
