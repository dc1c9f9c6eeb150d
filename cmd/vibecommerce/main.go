package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"vibecommerce/internal/config"
	httpapi "vibecommerce/internal/http"
	"vibecommerce/internal/http/handlers"
	applog "vibecommerce/internal/log"
	"vibecommerce/internal/repos"
	"vibecommerce/internal/services"
	"vibecommerce/internal/session"
	"vibecommerce/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "vibecommerce",
		Short:        "Vibe Commerce API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Load(envFile))
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Load(envFile))
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Seed the catalog and demo user (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(envFile)
			db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := repos.Seed(cmd.Context(), db, cfg.BcryptCost); err != nil {
				return err
			}
			log.Printf("[seed] done (%s)", cfg.DBDSN)
			return nil
		},
	})
	return root
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := applog.TeeToFile(cfg.LogFile)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
		}
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.OTelExporter, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Printf("[warn] telemetry shutdown: %v", err)
		}
	}()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.SeedOnStart {
		if err := repos.Seed(ctx, db, cfg.BcryptCost); err != nil {
			return err
		}
	}

	sessions, closeSessions, err := sessionStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeSessions()

	app := httpapi.New(cfg, handlers.NewDeps(db, cfg, sessions))

	errc := make(chan error, 1)
	go func() {
		log.Printf("[http] listening on :%s", cfg.Port)
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Printf("[http] shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// sessionStore prefers Redis when REDIS_URL is set. The SQL store is purged
// of expired rows once at startup.
func sessionStore(ctx context.Context, cfg config.Config, db *sqlx.DB) (services.SessionStore, func(), error) {
	if cfg.RedisURL != "" {
		rs, err := session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[session] redis")
		return rs, func() { _ = rs.Close() }, nil
	}

	sr := repos.NewSessionRepo(db, cfg.SessionTTL)
	if n, err := sr.Purge(ctx); err != nil {
		log.Printf("[warn] session purge: %v", err)
	} else if n > 0 {
		log.Printf("[session] purged %d expired sessions", n)
	}
	return sr, func() {}, nil
}
