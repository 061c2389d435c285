package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/danie1k/anime-metadata/internal/domain"
	"github.com/danie1k/anime-metadata/internal/provider"
)

const (
	searchURL    = "https://api.themoviedb.org/3/search/tv"
	detailsURL   = "https://api.themoviedb.org/3/tv"
	imageBaseURL = "https://www.themoviedb.org/t/p/original"

	providerName = "tmdb"
	dataTypeTV   = "apiv3,tv"
)

type service struct {
	log    zerolog.Logger
	apiKey string
	lang   string
	client *http.Client
	cache  domain.CacheRepo
}

// NewService creates the TMDB metadata provider.
func NewService(log zerolog.Logger, config *domain.Config, cache domain.CacheRepo) domain.Provider {
	return &service{
		log:    log.With().Str("module", "tmdb").Logger(),
		apiKey: config.TmdbApiKey,
		lang:   "en-US",
		client: &http.Client{},
		cache:  cache,
	}
}

func (s *service) Name() string { return providerName }

type namedItem struct {
	Name string `json:"name"`
}

type searchResponse struct {
	Results []struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	} `json:"results"`
}

type tvDetails struct {
	ID                  json.Number `json:"id"`
	Name                string      `json:"name"`
	OriginalName        string      `json:"original_name"`
	Overview            string      `json:"overview"`
	FirstAirDate        string      `json:"first_air_date"`
	LastAirDate         string      `json:"last_air_date"`
	VoteAverage         json.Number `json:"vote_average"`
	Genres              []namedItem `json:"genres"`
	Networks            []namedItem `json:"networks"`
	ProductionCompanies []namedItem `json:"production_companies"`
	BackdropPath        string      `json:"backdrop_path"`
	PosterPath          string      `json:"poster_path"`
}

// FindCandidates queries the TMDB TV search endpoint, one page, in API
// result order. A year hint narrows the search by first air date.
func (s *service) FindCandidates(ctx context.Context, title string, year *int) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("include_adult", "true")
	params.Set("language", s.lang)
	params.Set("page", "1")
	params.Set("query", title)
	if year != nil {
		params.Set("first_air_date_year", strconv.Itoa(*year))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	body, err := provider.Get(req, s.client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search TMDB")
	}

	response := searchResponse{}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal search response")
	}

	candidates := make([]domain.Candidate, 0, len(response.Results))
	for _, item := range response.Results {
		candidates = append(candidates, domain.Candidate{ID: item.ID.String(), Title: item.Name})
	}

	s.log.Debug().Str("title", title).Int("count", len(candidates)).Msg("TMDB search complete")
	return candidates, nil
}

// GetSeriesByID fetches the TV details payload, consulting the cache first,
// and maps it into the canonical model.
func (s *service) GetSeriesByID(ctx context.Context, id string) (*domain.Show, error) {
	key := domain.CacheKey{Provider: providerName, ID: id, DataType: dataTypeTV}

	body, err := s.cache.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		params := url.Values{}
		params.Set("api_key", s.apiKey)
		params.Set("language", s.lang)

		u := fmt.Sprintf("%s/%s?%s", detailsURL, url.PathEscape(id), params.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}
		return provider.Get(req, s.client)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch TMDB tv %s", id)
	}

	details := tvDetails{}
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal tv details")
	}

	return mapDetails(details, body)
}

func mapDetails(details tvDetails, raw []byte) (*domain.Show, error) {
	show, err := domain.NewShow(domain.ShowInput{
		ID: details.ID.String(),
		Titles: domain.Titles{
			domain.LanguageEnglish:  details.Name,
			domain.LanguageJapanese: details.OriginalName,
		},
		Premiered:    details.FirstAirDate,
		Ended:        details.LastAirDate,
		Genres:       itemNames(details.Genres),
		Studios:      itemNames(append(details.Networks, details.ProductionCompanies...)),
		Rating:       details.VoteAverage.String(),
		Plot:         details.Overview,
		ImageBaseURL: imageBaseURL,
		Images: domain.Images{
			Backdrop: details.BackdropPath,
			Folder:   details.PosterPath,
		},
		Raw: raw,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build canonical show")
	}
	return show, nil
}

func itemNames(items []namedItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
