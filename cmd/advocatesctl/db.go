package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/advocates-api/internal/repository"
	"github.com/noah-isme/advocates-api/internal/seed"
	"github.com/noah-isme/advocates-api/pkg/config"
	"github.com/noah-isme/advocates-api/pkg/database"
	"github.com/noah-isme/advocates-api/pkg/logger"
)

func openStore(ctx context.Context) (*config.Config, *zap.Logger, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	return cfg, logr, db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the advocates table, search function and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			_, logr, db, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			defer logr.Sync() //nolint:errcheck

			if err := repository.NewAdvocateRepository(db).Migrate(ctx); err != nil {
				return err
			}
			logr.Info("schema ready")
			if jsonOutput {
				printJSON(map[string]bool{"ok": true})
			}
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var (
		count    int
		truncate bool
		workers  int
		batch    int
		seedVal  uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic advocates directly into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive")
			}
			ctx := cmd.Context()

			cfg, logr, db, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			defer logr.Sync() //nolint:errcheck

			repo := repository.NewAdvocateRepository(db)
			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			if truncate {
				if err := repo.Truncate(ctx); err != nil {
					return err
				}
				logr.Info("advocates truncated")
			}

			if workers <= 0 {
				workers = cfg.Seed.Workers
			}
			if batch <= 0 {
				batch = cfg.Seed.BatchSize
			}
			seeder := seed.NewSeeder(repo, seed.NewGenerator(seedVal), seed.Options{
				BatchSize: batch,
				Workers:   workers,
				Logger:    logr.Named("seed"),
				Validator: validator.New(),
			})

			start := time.Now()
			inserted, err := seeder.Run(ctx, count)
			if err != nil {
				return fmt.Errorf("seeded %d of %d advocates: %w", inserted, count, err)
			}

			if jsonOutput {
				printJSON(map[string]interface{}{"inserted": inserted, "elapsedMs": time.Since(start).Milliseconds()})
				return nil
			}
			fmt.Println(summaryStyle.Render(fmt.Sprintf("Seeded %d advocates in %s", inserted, time.Since(start).Round(time.Millisecond))))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 5000, "Number of advocates to insert")
	cmd.Flags().BoolVar(&truncate, "truncate", false, "Remove existing advocates first")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent insert workers (default SEED_WORKERS)")
	cmd.Flags().IntVar(&batch, "batch", 0, fmt.Sprintf("Rows per insert statement, at most %d (default SEED_BATCH_SIZE)", seed.MaxBatchSize))
	cmd.Flags().Uint64Var(&seedVal, "seed", 0, "Generator seed for reproducible data (0 = random)")
	return cmd
}
