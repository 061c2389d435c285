package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danie1k/anime-metadata/internal/app"
	"github.com/danie1k/anime-metadata/internal/config"
	"github.com/danie1k/anime-metadata/internal/logger"
)

var searchCmd = &cobra.Command{
	Use:   "search [title]...",
	Short: "Find a series by title and store its metadata",
	Long: `Search resolves the given title (plus any alternative titles) against
one provider's catalog. Titles are tried in the given order; the first
one that resolves to a single plausible match wins. The normalized
record is stored under the root path and printed as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		providerName, _ := cmd.Flags().GetString("provider")
		year, _ := cmd.Flags().GetInt("year")

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

		var yearHint *int
		if year > 0 {
			yearHint = &year
		}

		show, err := application.Search(cmd.Context(), providerName, yearHint, args...)
		if err != nil {
			return err
		}

		return printShow(show)
	},
}

func printShow(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "   ")
	return enc.Encode(v)
}

func init() {
	searchCmd.Flags().String("provider", "", "provider to search (anidb, mal, tmdb, fanart)")
	searchCmd.Flags().Int("year", 0, "premiere year hint to narrow the search")
	searchCmd.MarkFlagRequired("provider")
	rootCmd.AddCommand(searchCmd)
}
