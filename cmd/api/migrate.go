package main

import (
	"github.com/spf13/cobra"

	"bolpur-mart/internal/database"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			pool, err := openPool(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := database.Migrate(cmd.Context(), pool, logger)
			if err != nil {
				return err
			}
			logger.Info().Strs("applied", applied).Msg("migrations complete")
			return nil
		},
	}
}
