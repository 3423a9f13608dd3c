package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/config"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

const redisPingTimeout = 3 * time.Second

// NewRedisClient backs the catalog cache and the rate limiter.
func NewRedisClient(ctx context.Context, cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	pingCtx, cancel := withOptionalTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("can not connect Redis at %s: %w", cfg.Redis.Addr, err)
	}

	log.Info("Connect Redis successfully.",
		zap.String("addr", cfg.Redis.Addr),
		zap.Int("db", cfg.Redis.DB))
	return rdb, nil
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
