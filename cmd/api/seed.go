package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"bolpur-mart/internal/config"
	"bolpur-mart/internal/repository"
	"bolpur-mart/internal/seed"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		fake     int
		fakeSeed int64
	)

	cmd := &cobra.Command{
		Use:   "seed [catalog files...]",
		Short: "Load catalogue files (YAML, optionally gzipped) into the database",
		Long: `seed reads each catalogue file from S3 when S3 is enabled, falling back to
local disk, merges them in order and upserts categories, products and time rules.`,
		Example: "  bolpur-mart seed data/catalog.yaml --fake 500",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"data/catalog.yaml"}
			}

			ctx := cmd.Context()
			catalog, err := seed.LoadAll(ctx, catalogLoader(ctx, cfg.S3, logger), args)
			if err != nil {
				return err
			}
			if fake > 0 {
				catalog.Products = append(catalog.Products, seed.FakeProducts(fake, catalog.Categories, fakeSeed)...)
			}

			pool, err := openPool(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			seeder := seed.NewSeeder(
				repository.NewCategoryRepository(pool, logger),
				repository.NewProductRepository(pool, logger),
				repository.NewSettingsRepository(pool, logger),
				logger,
			)

			progress, finish := seedProgress(progressbar.Default(int64(len(catalog.Products)), "seeding products"), logger)
			err = seeder.Seed(ctx, catalog, progress)
			finish()
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&fake, "fake", 0, "generate this many extra products")
	cmd.Flags().Int64Var(&fakeSeed, "fake-seed", 42, "random seed for generated products")
	return cmd
}

// seedProgress advances bar as products are written. Rendering errors only
// affect the terminal output and are logged.
func seedProgress(bar *progressbar.ProgressBar, logger zerolog.Logger) (seed.Progress, func()) {
	progress := func(n int) {
		if err := bar.Add(n); err != nil {
			logger.Debug().Err(err).Msg("progress bar update failed")
		}
	}
	finish := func() {
		if err := bar.Finish(); err != nil {
			logger.Debug().Err(err).Msg("progress bar finish failed")
		}
	}
	return progress, finish
}

// catalogLoader reads from S3 when enabled and falls back to local files.
func catalogLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) seed.Loader {
	local := seed.NewFileLoader(logger)
	if !cfg.Enabled {
		return local
	}

	remote, err := seed.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialise S3 loader, using local files only")
		return local
	}
	return seed.NewFallbackLoader(remote, local, cfg.Prefix, logger)
}
