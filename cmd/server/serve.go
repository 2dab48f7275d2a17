package main

import (
	"context"
	"fmt"
	"time"

	"github.com/phrazzld/focus-api/internal/config"
	"github.com/phrazzld/focus-api/internal/platform/logger"
	"github.com/phrazzld/focus-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// migrationTimeout bounds automatic migrations on startup.
const migrationTimeout = 2 * time.Minute

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

Configuration comes from config.yaml in --config-dir and FOCUS_* environment
variables. With database.auto_migrate set, pending migrations are applied
before the server starts listening.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.LoadFromDir(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"allowed_origins", cfg.Server.AllowedOrigins)

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(ctx, migrationTimeout)
		err := postgres.Migrate(migrateCtx, db, postgres.MigrateUp, log)
		cancel()
		if err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
