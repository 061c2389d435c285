package domain

import "time"

const (
	// DefaultSimilarityThreshold is the minimum normalized similarity score
	// for a search candidate to be considered a plausible match.
	DefaultSimilarityThreshold = 0.9

	// DefaultCacheTTL is the maximum age after which a cached provider
	// payload is treated as absent.
	DefaultCacheTTL = 7 * 24 * time.Hour
)

type Config struct {
	RootPath            string        `toml:"root_path" mapstructure:"root_path"`
	SimilarityThreshold float64       `toml:"similarity_threshold" mapstructure:"similarity_threshold"`
	CacheTTL            time.Duration `toml:"cache_ttl" mapstructure:"cache_ttl"`

	MalClientID     string `toml:"mal_client_id" mapstructure:"mal_client_id"`
	ShindenEnabled  bool   `toml:"shinden_enabled" mapstructure:"shinden_enabled"`
	TmdbApiKey      string `toml:"tmdb_api_key" mapstructure:"tmdb_api_key"`
	FanartApiKey    string `toml:"fanart_api_key" mapstructure:"fanart_api_key"`
	AnidbClient     string `toml:"anidb_client" mapstructure:"anidb_client"`
	AnidbClientVer  int    `toml:"anidb_client_ver" mapstructure:"anidb_client_ver"`
	AnidbTitlesPath string `toml:"anidb_titles_path" mapstructure:"anidb_titles_path"`
}
