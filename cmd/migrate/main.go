package main

import (
	"context"
	"os"

	"github.com/fhuszti/content-engine-go/internal/config"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/migration"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or roll back the content-engine schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDb(cmd.Context(), func(database *db.Database) error {
				if err := migration.MigrateUp(cmd.Context(), database.DB); err != nil {
					return err
				}
				logger.Info(cmd.Context(), "✅  Migrations applied successfully")
				return nil
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDb(cmd.Context(), func(database *db.Database) error {
				if err := migration.MigrateDown(database.DB, steps); err != nil {
					return err
				}
				logger.Infof(cmd.Context(), "✅  Rolled back %d migration(s)", steps)
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	root.AddCommand(up, down)

	ctx := context.Background()
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Errorf(ctx, "❌  Migration failed: %v", err)
		os.Exit(1)
	}
}

func withDb(ctx context.Context, fn func(*db.Database) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init()

	database, err := db.New(db.Config{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		MultiStatements: true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	return fn(database)
}
