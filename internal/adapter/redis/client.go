package redis

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/cafeteria/internal/config"
	goredis "github.com/redis/go-redis/v9"
)

// Connect opens a client and checks the server answers
func Connect(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
