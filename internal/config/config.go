package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/danie1k/anime-metadata/internal/domain"
)

// Load builds the configuration from the config file (config.toml, optional)
// and environment variables (ANIME_METADATA_*). Provider credentials are
// optional; a provider without credentials is simply not registered.
func Load() (*domain.Config, error) {
	cfg := &domain.Config{
		RootPath:            viper.GetString("root_path"),
		SimilarityThreshold: viper.GetFloat64("similarity_threshold"),
		CacheTTL:            viper.GetDuration("cache_ttl"),
		MalClientID:         viper.GetString("mal_client_id"),
		ShindenEnabled:      viper.GetBool("shinden_enabled"),
		TmdbApiKey:          viper.GetString("tmdb_api_key"),
		FanartApiKey:        viper.GetString("fanart_api_key"),
		AnidbClient:         viper.GetString("anidb_client"),
		AnidbClientVer:      viper.GetInt("anidb_client_ver"),
		AnidbTitlesPath:     viper.GetString("anidb_titles_path"),
	}

	if cfg.RootPath == "" {
		cfg.RootPath = "."
	}
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = domain.DefaultSimilarityThreshold
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = domain.DefaultCacheTTL
	}
	if cfg.AnidbTitlesPath == "" {
		cfg.AnidbTitlesPath = filepath.Join(cfg.RootPath, "anime-titles.dat")
	}

	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("similarity_threshold must be in (0, 1], got %v", cfg.SimilarityThreshold)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("cache_ttl must not be negative, got %v", cfg.CacheTTL)
	}
	if cfg.AnidbClient != "" && cfg.AnidbClientVer <= 0 {
		return nil, fmt.Errorf("anidb_client_ver is required when anidb_client is set")
	}

	return cfg, nil
}
