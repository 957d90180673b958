package main

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-news-backend/internal/config"
	"github.com/tbourn/go-news-backend/internal/repo"
	"github.com/tbourn/go-news-backend/internal/seed"
)

// errProductionSeed guards against wiping a production store by accident.
var errProductionSeed = errors.New("refusing to seed a production store without --force")

func newSeedCmd(cfg *config.Config) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Drop every table and load the fixture dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Env == config.EnvProduction && !force {
				return errProductionSeed
			}
			db, err := repo.Open(cfg.DB)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close(db) }()

			if err := seed.Run(cmd.Context(), db); err != nil {
				return err
			}
			ds := seed.TestData()
			log.Info().
				Str("driver", cfg.DB.Driver).
				Int("topics", len(ds.Topics)).
				Int("users", len(ds.Users)).
				Int("articles", len(ds.Articles)).
				Int("comments", len(ds.Comments)).
				Msg("store seeded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "allow seeding when APP_ENV=production")
	return cmd
}
