package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jaekwang-park/todos/internal/config"
)

// Open builds the task repository selected by cfg.Store.Driver. The returned
// close func releases the backend's connections and is never nil.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (TaskRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory task store; data is lost on exit")
		return NewMemoryTask(), noop, nil

	case config.DriverFile:
		logger.Info("using file task store", "path", cfg.Store.FilePath)
		return NewFileTask(cfg.Store.FilePath), noop, nil

	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		logger.Info("using sqlite task store", "path", cfg.Store.SQLitePath)
		return NewSQLiteTask(db), sqlDB.Close, nil

	case config.DriverPostgres:
		db, err := NewDB(ctx, cfg.DB.DSN())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres task store", "host", cfg.DB.Host, "database", cfg.DB.Name)
		return NewPostgresTask(db), db.Close, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("using redis task store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return NewRedisTask(client, cfg.Redis.Prefix), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
