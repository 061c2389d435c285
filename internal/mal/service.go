package mal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/danie1k/anime-metadata/internal/domain"
	"github.com/danie1k/anime-metadata/internal/provider"
)

const (
	searchURL  = "https://myanimelist.net/search/prefix.json"
	detailsURL = "https://api.myanimelist.net/v2/anime"

	providerName  = "mal"
	dataTypeAnime = "apiv2,anime"
)

// detailFields is the field set requested from the MAL API v2 detail
// endpoint.
var detailFields = strings.Join([]string{
	"alternative_titles",
	"end_date",
	"genres",
	"id",
	"main_picture",
	"mean",
	"media_type",
	"num_episodes",
	"rating",
	"source",
	"start_date",
	"studios",
	"synopsis",
	"title",
}, ",")

type clientIDTransport struct {
	Transport http.RoundTripper
	ClientID  string
}

func (c *clientIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if c.Transport == nil {
		c.Transport = http.DefaultTransport
	}
	req.Header.Add("X-MAL-CLIENT-ID", c.ClientID)
	return c.Transport.RoundTrip(req)
}

type service struct {
	log       zerolog.Logger
	client    *http.Client
	webClient *http.Client
	cache     domain.CacheRepo
	episodes  episodeScraper
}

// episodeScraper fetches the episode list for one anime; swapped in tests.
type episodeScraper interface {
	ScrapeEpisodes(animeID string) ([]domain.EpisodeInput, error)
}

// NewService creates the MyAnimeList metadata provider.
func NewService(log zerolog.Logger, config *domain.Config, cache domain.CacheRepo) domain.Provider {
	malLog := log.With().Str("module", "mal").Logger()
	return &service{
		log: malLog,
		client: &http.Client{
			Transport: &clientIDTransport{ClientID: config.MalClientID},
		},
		webClient: &http.Client{},
		cache:     cache,
		episodes:  newEpisodeScraper(malLog, config.RootPath),
	}
}

func (s *service) Name() string { return providerName }

type prefixSearchResponse struct {
	Categories []struct {
		Type  string `json:"type"`
		Items []struct {
			ID   json.Number `json:"id"`
			Name string      `json:"name"`
		} `json:"items"`
	} `json:"categories"`
}

type namedItem struct {
	Name string `json:"name"`
}

type animeDetails struct {
	ID                json.Number `json:"id"`
	Title             string      `json:"title"`
	AlternativeTitles struct {
		Synonyms []string `json:"synonyms"`
		En       string   `json:"en"`
		Ja       string   `json:"ja"`
	} `json:"alternative_titles"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	Synopsis    string      `json:"synopsis"`
	Mean        json.Number `json:"mean"`
	Rating      string      `json:"rating"`
	Source      string      `json:"source"`
	NumEpisodes int         `json:"num_episodes"`
	Genres      []namedItem `json:"genres"`
	Studios     []namedItem `json:"studios"`
	MainPicture struct {
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"main_picture"`
}

// FindCandidates queries the MAL prefix search used by the site's own search
// box; results arrive in site relevance order.
func (s *service) FindCandidates(ctx context.Context, title string, _ *int) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Set("keyword", title)
	params.Set("type", "anime")
	params.Set("v", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Referer", "https://myanimelist.net/")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	body, err := provider.Get(req, s.webClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search MAL")
	}

	response := prefixSearchResponse{}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal search response")
	}

	var candidates []domain.Candidate
	for _, category := range response.Categories {
		if category.Type != "" && category.Type != "anime" {
			continue
		}
		for _, item := range category.Items {
			candidates = append(candidates, domain.Candidate{ID: item.ID.String(), Title: item.Name})
		}
		break
	}

	s.log.Debug().Str("title", title).Int("count", len(candidates)).Msg("MAL search complete")
	return candidates, nil
}

// GetSeriesByID fetches the API v2 detail payload (cache first) and the
// scraped episode list, and maps both into the canonical model.
func (s *service) GetSeriesByID(ctx context.Context, id string) (*domain.Show, error) {
	key := domain.CacheKey{Provider: providerName, ID: id, DataType: dataTypeAnime}

	body, err := s.cache.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		u := fmt.Sprintf("%s/%s?fields=%s", detailsURL, url.PathEscape(id), url.QueryEscape(detailFields))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}
		return provider.Get(req, s.client)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch MAL anime %s", id)
	}

	details := animeDetails{}
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal anime details")
	}

	episodes, err := s.episodes.ScrapeEpisodes(id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch episode list for anime %s", id)
	}
	if details.NumEpisodes > 0 && len(episodes) != details.NumEpisodes {
		s.log.Warn().
			Str("anime_id", id).
			Int("scraped", len(episodes)).
			Int("expected", details.NumEpisodes).
			Msg("scraped episode count differs from API")
	}

	return mapDetails(details, episodes, body)
}

func mapDetails(details animeDetails, episodes []domain.EpisodeInput, raw []byte) (*domain.Show, error) {
	mpaa := mapMPAA(details.Rating)
	source := mapSourceMaterial(details.Source)

	show, err := domain.NewShow(domain.ShowInput{
		ID: details.ID.String(),
		Titles: domain.Titles{
			domain.LanguageEnglish:  details.AlternativeTitles.En,
			domain.LanguageJapanese: details.AlternativeTitles.Ja,
			domain.LanguageRomaji:   details.Title,
		},
		Premiered:      details.StartDate,
		Ended:          details.EndDate,
		Genres:         itemNames(details.Genres),
		Studios:        itemNames(details.Studios),
		Rating:         details.Mean.String(),
		MPAA:           &mpaa,
		SourceMaterial: &source,
		Plot:           details.Synopsis,
		Images: domain.Images{
			Folder: mainPicture(details),
		},
		Episodes: episodes,
		Raw:      raw,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build canonical show")
	}
	return show, nil
}

// mapMPAA translates MAL audience ratings onto the MPAA set. MAL documents
// its own closed set, so unknown values fall back to G rather than failing.
func mapMPAA(rating string) domain.MPAA {
	switch strings.ToLower(rating) {
	case "pg":
		return domain.MPAAPg
	case "pg_13":
		return domain.MPAAPg13
	case "r":
		return domain.MPAAR
	case "r+":
		return domain.MPAANc17
	case "rx":
		return domain.MPAAX
	default:
		return domain.MPAAG
	}
}

// mapSourceMaterial classifies the MAL source field; values outside the
// known keywords default to Other, as the API adds kinds over time.
func mapSourceMaterial(source string) domain.SourceMaterial {
	source = strings.ToLower(source)
	switch {
	case strings.Contains(source, "manga"):
		return domain.SourceManga
	case strings.Contains(source, "game"), strings.Contains(source, "visual"):
		return domain.SourceGame
	case strings.Contains(source, "book"), strings.Contains(source, "novel"):
		return domain.SourceLightNovel
	case strings.Contains(source, "original"):
		return domain.SourceOriginal
	default:
		return domain.SourceOther
	}
}

func mainPicture(details animeDetails) string {
	if details.MainPicture.Large != "" {
		return details.MainPicture.Large
	}
	return details.MainPicture.Medium
}

func itemNames(items []namedItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
