package pkg

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/coursekit/platform-service/internal/config"
)

// NewRedisClient builds a Redis client from the configured URL. A nil client
// is a valid return when no URL is configured; the cache layer treats it as
// an always-miss cache.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return redis.NewClient(opts), nil
}
