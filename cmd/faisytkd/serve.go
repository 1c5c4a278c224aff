package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/config"
	"github.com/moajmalnk/faisytkd/internal/server"
)

// connectRetry waits up to two minutes for the database to accept
// connections.
var connectRetry = common.RetryOptions{
	MaxAttempts:  60,
	InitialDelay: 2 * time.Second,
	MaxDelay:     2 * time.Second,
	Multiplier:   1,
}

func serveCmd() *cobra.Command {
	var seedDemo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the remote ledger service",
		Long: `Serve the ledger JSON API. With server.store=postgres the schema is created
on startup; with server.store=memory everything lives in process. Redis, when
configured, caches list and summary responses.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg.Server)
			if err != nil {
				return err
			}
			defer store.Close()

			if seedDemo {
				if err := server.SeedDemo(ctx, store, time.Now()); err != nil {
					return fmt.Errorf("seeding demo data failed: %w", err)
				}
				slog.Info("Demo data seeded")
			}

			cache := openCache(ctx, cfg.Server.RedisURL)

			if cfg.Logging.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           server.NewRouter(store, cache),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Server starting", "port", cfg.Server.Port, "store", cfg.Server.Store)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("failed to start server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			slog.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&seedDemo, "seed-demo", false, "seed demo accounts and transactions when the store is empty")

	return cmd
}

func openStore(ctx context.Context, cfg config.ServerConfig) (server.Store, error) {
	if cfg.Store == config.StoreMemory {
		slog.Info("Using in-memory store")
		store := server.NewMemoryStore()
		for _, in := range server.DefaultCategories {
			if _, err := store.CreateCategory(ctx, in); err != nil {
				return nil, err
			}
		}
		return store, nil
	}

	pg, err := server.OpenPostgres(ctx, cfg.DatabaseURL, connectRetry)
	if err != nil {
		return nil, err
	}
	if err := server.Migrate(ctx, pg.DB()); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

// openCache connects to Redis, continuing without a cache when it is not
// configured or unreachable.
func openCache(ctx context.Context, redisURL string) server.Cache {
	if redisURL == "" {
		return server.NoCache{}
	}
	cache, err := server.NewRedisCache(ctx, redisURL)
	if err != nil {
		slog.Warn("Failed to initialize Redis, continuing without cache", "error", err)
		return server.NoCache{}
	}
	return cache
}
