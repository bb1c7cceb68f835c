package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/sessionplanner/internal/cache"
	"github.com/JonMunkholm/sessionplanner/internal/config"
	"github.com/JonMunkholm/sessionplanner/internal/core"
	"github.com/JonMunkholm/sessionplanner/internal/logging"
	"github.com/JonMunkholm/sessionplanner/internal/store"
	"github.com/JonMunkholm/sessionplanner/internal/web"
	"github.com/joho/godotenv"
)

// sessionStore is what the server needs from a backing database.
type sessionStore interface {
	core.SessionStore
	web.SessionReader
}

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logCloser := logging.Setup(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	defer logCloser.Close()

	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	sessions, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open session store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore.Close()

	var previews core.PreviewCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedis(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rc.Close()
		previews = rc
		slog.Info("preview cache: redis", "addr", cfg.Redis.Addr)
	} else {
		slog.Info("preview cache: in-memory")
	}

	service := core.NewService(sessions, previews, core.ServiceConfig{
		MaxFileSize:   cfg.Import.MaxFileSize,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWaitTime:   cfg.Import.MaxWaitTime,
		MaxBulkItems:  cfg.Import.MaxBulkItems,
		CommitTimeout: cfg.Import.CommitTimeout,
		PreviewTTL:    cfg.Import.PreviewTTL,
	})

	server := web.NewServer(service, sessions, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for running imports and commits to finish (with timeout)
		limiter := service.Limiter()
		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore connects the configured database and makes sure the sessions
// table exists.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (sessionStore, io.Closer, error) {
	switch strings.ToLower(cfg.Driver) {
	case "sqlite":
		db, err := store.OpenSQLite(ctx, cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to database", "driver", "sqlite", "path", cfg.URL)
		return db, db, nil

	default:
		pool, err := store.OpenPostgres(ctx, cfg.URL, store.PoolOptions{
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}

		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		// Log which database we connected to
		if u, err := url.Parse(cfg.URL); err == nil {
			slog.Info("connected to database", "driver", "postgres", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database", "driver", "postgres")
		}
		return pg, closerFunc(func() error { pool.Close(); return nil }), nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
