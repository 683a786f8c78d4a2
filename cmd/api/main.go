package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"

	"github.com/jaekwang-park/todos/internal/config"
	todohttp "github.com/jaekwang-park/todos/internal/http"
	"github.com/jaekwang-park/todos/internal/repository"
	"github.com/jaekwang-park/todos/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Resolve(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"store", cfg.Store.Driver,
		"log_level", cfg.LogLevel,
	)

	repo, closeStore, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}

	taskSvc := service.NewTaskService(repo)

	srv := todohttp.NewServer(cfg.ServerPort, logger, taskSvc, todohttp.Options{
		IndexPath:   cfg.IndexPath,
		CORSOrigins: cfg.CORSOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			shutdownErr := srv.Shutdown(ctx)
			if err := closeStore(); err != nil {
				logger.Error("failed to close task store", "error", err)
			}
			return shutdownErr
		},
	})

	select {
	case err := <-serverErr:
		if cerr := closeStore(); cerr != nil {
			logger.Error("failed to close task store", "error", cerr)
		}
		return fmt.Errorf("server failed: %w", err)
	case code := <-wait:
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
	}

	logger.Info("server stopped gracefully")
	return nil
}
