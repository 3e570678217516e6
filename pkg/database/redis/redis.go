package redis

import (
	"context"
	"fmt"
	"net"

	"github.com/redis/go-redis/v9"

	"sharpPicks/pkg/config"
)

func options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
}

// NewRedisClient connects and pings once so a bad address is reported at
// startup, where callers decide whether to run without the pool cache.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(options(cfg.Redis))

	timeout := cfg.Redis.DialTimeout
	if timeout <= 0 {
		timeout = config.DefaultRedisDialTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", client.Options().Addr, err)
	}

	return client, nil
}

func CloseRedisClient(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
