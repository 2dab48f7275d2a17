package main

import (
	"context"
	"fmt"
	"os"

	"github.com/phrazzld/focus-api/internal/config"
	"github.com/phrazzld/focus-api/internal/platform/logger"
	"github.com/phrazzld/focus-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long: `Manage database migrations.

Migrations are embedded in the binary and tracked in the schema_migrations
table.`,
	}

	for _, sub := range []struct {
		name  string
		short string
	}{
		{postgres.MigrateUp, "Apply all pending migrations"},
		{postgres.MigrateDown, "Roll back the most recent migration"},
		{postgres.MigrateStatus, "Show the status of every migration"},
		{postgres.MigrateVersion, "Print the current schema version"},
	} {
		command := sub.name
		cmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cmd.Context(), opts, command)
			},
		})
	}

	return cmd
}

func runMigrate(ctx context.Context, opts *rootOptions, command string) error {
	cfg, err := config.LoadFromDir(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Goose prints migration status through the logger, so keep it readable
	// on stderr.
	log := logger.SetupWithWriter(os.Stderr, cfg.Server.LogLevel)

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return postgres.Migrate(ctx, db, command, log)
}
