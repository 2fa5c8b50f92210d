package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/config"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/database"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/logging"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/verify"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

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
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"strict_headers", cfg.Upload.StrictHeaders,
		"usps_configured", cfg.Verify.USPSUserID != "",
		"google_configured", cfg.Verify.GoogleAPIKey != "",
		"redis_cache", cfg.Verify.RedisAddr != "",
	)

	// Parse and configure connection pool
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	// Connect to database
	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	store := database.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("failed to apply database schema", "error", err)
		os.Exit(1)
	}

	// Optional Redis verification cache
	var cache *verify.OutcomeCache
	if cfg.Verify.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Verify.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, verification cache disabled", "error", err)
		} else {
			cache = verify.NewOutcomeCache(rdb, cfg.Verify.CacheTTL)
			slog.Info("verification cache enabled", "addr", cfg.Verify.RedisAddr)
		}
	}

	// Verification providers; a missing credential leaves the slot nil
	resolver := &verify.Resolver{
		Timeout: cfg.Verify.Timeout,
		Cache:   cache,
	}
	if cfg.Verify.USPSUserID != "" {
		resolver.Primary = verify.NewUSPSProvider(cfg.Verify.USPSUserID)
	}
	if cfg.Verify.GoogleAPIKey != "" {
		resolver.Secondary = verify.NewGoogleProvider(cfg.Verify.GoogleAPIKey)
	}

	var opts []core.ServiceOption
	if cfg.Upload.StrictHeaders {
		opts = append(opts, core.WithStrictHeaders())
	}
	service := core.NewService(store, resolver, opts...)

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
