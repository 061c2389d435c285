package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "anime-metadata",
	Short: "Aggregate TV series metadata from anime providers",
	Long: `anime-metadata resolves series titles against metadata providers
(AniDB, MyAnimeList, TMDB, Fanart.tv) and stores one normalized record
per series, with provider responses cached locally.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.anime-metadata.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().String("root-path", ".", "the path where records and caches are saved")
	rootCmd.PersistentFlags().Float64("similarity", 0, "minimum title similarity for a match, in (0, 1]")
	rootCmd.PersistentFlags().Duration("cache-ttl", 0, "how long cached provider responses stay fresh")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("root_path", rootCmd.PersistentFlags().Lookup("root-path"))
	viper.BindPFlag("similarity_threshold", rootCmd.PersistentFlags().Lookup("similarity"))
	viper.BindPFlag("cache_ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func logLevel() string {
	return viper.GetString("log_level")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory and current directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".anime-metadata")
		viper.SetConfigName("config")
	}

	// Environment variables
	viper.SetEnvPrefix("ANIME_METADATA")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
