package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danie1k/anime-metadata/internal/app"
	"github.com/danie1k/anime-metadata/internal/config"
	"github.com/danie1k/anime-metadata/internal/logger"
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Fetch a series by provider ID and store its metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		providerName, _ := cmd.Flags().GetString("provider")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log := logger.NewLoggerWithLevel(logLevel())

		application, err := app.NewApp(log, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer application.Close()

		show, err := application.Get(cmd.Context(), providerName, args[0])
		if err != nil {
			return err
		}

		return printShow(show)
	},
}

func init() {
	getCmd.Flags().String("provider", "", "provider to fetch from (anidb, mal, tmdb, fanart)")
	getCmd.MarkFlagRequired("provider")
	rootCmd.AddCommand(getCmd)
}
