package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/cache"
	"github.com/kailas-cloud/fuzzdex/internal/config"
	"github.com/kailas-cloud/fuzzdex/internal/db"
	"github.com/kailas-cloud/fuzzdex/internal/db/postgres"
	"github.com/kailas-cloud/fuzzdex/internal/db/sqlite"
	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/schema"
	logpkg "github.com/kailas-cloud/fuzzdex/internal/logger"
	"github.com/kailas-cloud/fuzzdex/internal/metrics"
	"github.com/kailas-cloud/fuzzdex/internal/repository/resultcache"
	searchrepo "github.com/kailas-cloud/fuzzdex/internal/repository/search"
	chiTransport "github.com/kailas-cloud/fuzzdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/fuzzdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/fuzzdex/internal/usecase/search"
	"github.com/kailas-cloud/fuzzdex/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the fuzzdex HTTP API server",
		Long: `Serve the search API over HTTP until interrupted.

The store, the table allow-list, the result cache and the HTTP port all
come from the configuration file; SIGINT or SIGTERM triggers a graceful
shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting fuzzdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Int("tables", len(cfg.Tables)),
	)

	store, err := openStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("create search store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("search store not ready: %w", err)
	}
	logger.Info("Connected to search store")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	catalog, err := buildCatalog(cfg.Tables)
	if err != nil {
		return fmt.Errorf("build table catalog: %w", err)
	}

	svc := searchuc.New(searchrepo.New(store), catalog)

	// Result cache decorates the search service when configured.
	var searcher domain.Searcher = svc
	var cachePinger healthuc.CachePinger
	switch cfg.Cache.Backend {
	case "memory":
		mem := cache.NewMemory(cfg.Cache.Size, time.Duration(cfg.Cache.TTLSec)*time.Second)
		defer mem.Close()
		searcher = resultcache.New(svc, mem, metrics.SearchCacheTotal, logger)
	case "redis":
		red, err := cache.NewRedis(cache.RedisConfig{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      time.Duration(cfg.Cache.TTLSec) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("create result cache: %w", err)
		}
		defer red.Close()
		searcher = resultcache.New(svc, red, metrics.SearchCacheTotal, logger)
		cachePinger = red
	}
	logger.Info("Result cache configured", zap.String("backend", cfg.Cache.Backend))

	healthSvc := healthuc.New(store, cachePinger)

	server := chiTransport.NewServer(searcher, catalog, healthSvc, chiTransport.Defaults{
		MinWordSimilarity: cfg.Search.MinWordSimilarity,
		MinSimilarity:     cfg.Search.MinSimilarity,
		Limit:             cfg.Search.DefaultLimit,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		logger.Info("Received shutdown signal")
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// openStore creates the configured database store.
func openStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.NewStore(sqlite.Config{Path: cfg.DSN})
	case "postgres":
		return postgres.NewStore(postgres.Config{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeSec) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// buildCatalog turns the configured allow-list into the domain catalog.
func buildCatalog(tables []config.TableConfig) (schema.Catalog, error) {
	specs := make([]schema.Table, 0, len(tables))
	for _, tc := range tables {
		tbl, err := schema.New(tc.Name, tc.Key, tc.Columns)
		if err != nil {
			return schema.Catalog{}, fmt.Errorf("table %q: %w", tc.Name, err)
		}
		specs = append(specs, tbl)
	}
	return schema.NewCatalog(specs...)
}
