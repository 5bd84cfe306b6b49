package db

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"ms-nametags/internal/config"
)

// Open builds the KV selected by cfg.Store.Driver and checks it is reachable.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.Store.Driver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		return NewRedisKV(client), nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.Database.SQLiteDSN)
	case "postgres":
		if cfg.Database.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN not set")
		}
		return OpenPostgres(ctx, cfg.Database.PostgresDSN,
			cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.MaxLifetime)
	case "file":
		return NewFileKV(cfg.Store.File), nil
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
