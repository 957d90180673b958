// Command newsapi serves the NC News JSON API and manages its store.
//
//	newsapi serve   # run the HTTP server until SIGINT/SIGTERM
//	newsapi seed    # drop, recreate and load the fixture dataset
//
// Settings come from the environment, optionally preloaded from
// ".env.<APP_ENV>" and ".env" in the working directory.
//
// @title        NC News API
// @version      1.0
// @description  Read and discuss news articles: topics, users, articles with vote counts, and threaded comments.
// @BasePath     /api
package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-news-backend/internal/config"
	"github.com/tbourn/go-news-backend/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("newsapi failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envName string
		cfg     config.Config
	)
	root := &cobra.Command{
		Use:           "newsapi",
		Short:         "NC News JSON API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnvFiles(sysutil.EnvFiles(envName)); err != nil {
				return err
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			sysutil.ConfigureLogger(cmd.ErrOrStderr(), loaded.LogPretty)
			sysutil.SetLogLevel(loaded.LogLevel)
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envName, "env", "", "environment whose .env file is loaded (default $APP_ENV)")

	root.AddCommand(
		newServeCmd(&cfg),
		newSeedCmd(&cfg),
		&cobra.Command{
			Use:   "version",
			Short: "Print the build version",
			Run: func(cmd *cobra.Command, _ []string) {
				cmd.Println(version)
			},
		},
	)
	return root
}

// loadEnvFiles loads each dotenv file that exists. Earlier files win, and
// variables already present in the environment are never overridden.
func loadEnvFiles(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		log.Debug().Str("file", f).Msg("loaded env file")
	}
	return nil
}
