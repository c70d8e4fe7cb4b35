package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"niuniq/migrations"
	"niuniq/pkg/config"
	"niuniq/pkg/database/postgresql"
	"niuniq/pkg/filestorage"
	applogger "niuniq/pkg/logger"
	"niuniq/pkg/utils"
	"niuniq/seeders"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill or empty the niuniq database",
}

func main() {
	var dataDir string

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import users, stores and products from JSON files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSeeder(cmd.Context(), func(s *seeders.Seeder) error {
				return s.Import(cmd.Context(), dataDir)
			})
		},
	}
	importCmd.Flags().StringVar(&dataDir, "data", "./_data", "directory holding user.json, store.json and product.json")

	destroyCmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete every row and the uploaded media",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSeeder(cmd.Context(), func(s *seeders.Seeder) error {
				return s.Destroy(cmd.Context())
			})
		},
	}

	hashCmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash stored for a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	rootCmd.AddCommand(importCmd, destroyCmd, hashCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withSeeder connects, migrates and hands a ready Seeder to fn.
func withSeeder(ctx context.Context, fn func(*seeders.Seeder) error) error {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, "")
	defer func() { _ = logger.Sync() }()

	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, cfg.Postgres.ConnectTimeout, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrate(ctx, pool); err != nil {
		return err
	}

	storage, err := filestorage.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("file storage: %w", err)
	}

	logger.Info("seeding", zap.String("database", pool.Config().ConnConfig.Database))
	return fn(seeders.New(pool, storage, cfg.Server.PublicBaseURL, logger.Named("seed")))
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgresql.Migrate(ctx, pool, migrations.FS); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
