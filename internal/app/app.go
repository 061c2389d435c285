// Package app wires configuration, storage and the metadata providers into
// one handle the commands drive.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/danie1k/anime-metadata/internal/anidb"
	"github.com/danie1k/anime-metadata/internal/database"
	"github.com/danie1k/anime-metadata/internal/domain"
	"github.com/danie1k/anime-metadata/internal/fanart"
	"github.com/danie1k/anime-metadata/internal/mal"
	"github.com/danie1k/anime-metadata/internal/provider"
	"github.com/danie1k/anime-metadata/internal/repository"
	"github.com/danie1k/anime-metadata/internal/shinden"
	"github.com/danie1k/anime-metadata/internal/tmdb"
)

// App holds the initialized application with all dependencies wired.
type App struct {
	log       zerolog.Logger
	config    *domain.Config
	db        *database.DB
	cacheRepo domain.CacheRepo
	fileRepo  *repository.FileRepository
	providers map[string]domain.Provider
}

// NewApp initializes storage and registers every provider the configuration
// enables, either by credential or by explicit toggle.
func NewApp(log zerolog.Logger, cfg *domain.Config) (*App, error) {
	db, err := database.NewDB(cfg.RootPath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cacheRepo := database.NewCacheRepo(log, db, cfg.CacheTTL)
	fileRepo := repository.NewFileRepository(log, cfg.RootPath)

	a := &App{
		log:       log,
		config:    cfg,
		db:        db,
		cacheRepo: cacheRepo,
		fileRepo:  fileRepo,
		providers: map[string]domain.Provider{},
	}

	if cfg.TmdbApiKey != "" {
		a.register(tmdb.NewService(log, cfg, cacheRepo))
	}
	if cfg.MalClientID != "" {
		a.register(mal.NewService(log, cfg, cacheRepo))
	}
	if cfg.FanartApiKey != "" {
		a.register(fanart.NewService(log, cfg, cacheRepo))
	}
	if cfg.ShindenEnabled {
		a.register(shinden.NewService(log, cfg, cacheRepo))
	}
	if cfg.AnidbClient != "" {
		titles := anidb.NewTitleStore(log, cfg.AnidbTitlesPath)
		if err := titles.Verify(); err != nil {
			db.Close()
			return nil, err
		}

		tagPath := filepath.Join(cfg.RootPath, "anidb-source-tags.yaml")
		sourceTags, err := fileRepo.GetTagDictionary(context.Background(), tagPath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load tag dictionary: %w", err)
		}

		a.register(anidb.NewService(log, cfg, cacheRepo, titles, sourceTags))
	}

	if len(a.providers) == 0 {
		db.Close()
		return nil, fmt.Errorf("no providers configured; set at least one provider credential or enable shinden")
	}

	return a, nil
}

func (a *App) register(p domain.Provider) {
	a.providers[p.Name()] = p
}

// ProviderNames lists the registered providers, sorted.
func (a *App) ProviderNames() []string {
	names := make([]string, 0, len(a.providers))
	for name := range a.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *App) provider(name string) (domain.Provider, error) {
	p, ok := a.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q, configured providers: %v", name, a.ProviderNames())
	}
	return p, nil
}

// Search resolves one of the given alternative titles against the named
// provider, fetches the canonical record for the match and stores it under
// the root path.
func (a *App) Search(ctx context.Context, providerName string, year *int, titles ...string) (*domain.Show, error) {
	p, err := a.provider(providerName)
	if err != nil {
		return nil, err
	}

	show, err := provider.SearchSeries(ctx, p, a.config.SimilarityThreshold, year, titles...)
	if err != nil {
		return nil, err
	}

	if err := a.fileRepo.StoreShow(ctx, p.Name(), show); err != nil {
		return nil, err
	}

	a.log.Info().Str("provider", p.Name()).Str("id", show.ID).Msg("stored series metadata")
	return show, nil
}

// Get fetches the canonical record for a known provider ID and stores it
// under the root path.
func (a *App) Get(ctx context.Context, providerName, id string) (*domain.Show, error) {
	p, err := a.provider(providerName)
	if err != nil {
		return nil, err
	}

	show, err := p.GetSeriesByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.fileRepo.StoreShow(ctx, p.Name(), show); err != nil {
		return nil, err
	}

	a.log.Info().Str("provider", p.Name()).Str("id", show.ID).Msg("stored series metadata")
	return show, nil
}

// Close releases the cache database.
func (a *App) Close() error {
	return a.db.Close()
}
