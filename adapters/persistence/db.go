package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/config"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

// NewPostgresPool opens the pool shared by the channel, member and video
// repositories and pings it before returning.
func NewPostgresPool(ctx context.Context, cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("do not create connection pool: %w", err)
	}

	pingCtx, cancel := withOptionalTimeout(ctx, cfg.DB.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	log.Info("Connect PostgreSQL successfully.",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns))
	return pool, nil
}

// poolConfig overlays the db.* settings on the DSN. Zero values keep pgx
// defaults.
func poolConfig(cfg config.Config) (*pgxpool.Config, error) {
	if cfg.DB.DSN == "" {
		return nil, errors.New("db.dsn is not set")
	}
	pc, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid db.dsn: %w", err)
	}

	if cfg.DB.MaxConns > 0 {
		pc.MaxConns = cfg.DB.MaxConns
	}
	if cfg.DB.MinConns > 0 {
		pc.MinConns = cfg.DB.MinConns
	}
	if cfg.DB.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.DB.MaxConnLifetime
	}
	if cfg.DB.ConnectTimeout > 0 {
		pc.ConnConfig.ConnectTimeout = cfg.DB.ConnectTimeout
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "vidshelf"
	return pc, nil
}
