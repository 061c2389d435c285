package fanart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/danie1k/anime-metadata/internal/domain"
	"github.com/danie1k/anime-metadata/internal/provider"
)

const (
	searchURL  = "https://fanart.tv/api/search.php"
	detailsURL = "http://webservice.fanart.tv/v3/tv"

	providerName = "fanart"
	dataTypeTV   = "api,tv"
)

// service is an artwork-only provider: it contributes titles and images, no
// dates, staff or episodes.
type service struct {
	log            zerolog.Logger
	apiKey         string
	client         *http.Client
	cache          domain.CacheRepo
	preferredLangs []string
}

// NewService creates the Fanart.tv artwork provider.
func NewService(log zerolog.Logger, config *domain.Config, cache domain.CacheRepo) domain.Provider {
	return &service{
		log:    log.With().Str("module", "fanart").Logger(),
		apiKey: config.FanartApiKey,
		client: &http.Client{},
		cache:  cache,
		preferredLangs: []string{
			string(domain.LanguageEnglish),
			string(domain.LanguageJapanese),
			string(domain.LanguageUnknown),
		},
	}
}

func (s *service) Name() string { return providerName }

type searchItem struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	ImageCount json.Number `json:"image_count"`
}

type imageData struct {
	ID    json.Number `json:"id"`
	URL   string      `json:"url"`
	Lang  string      `json:"lang"`
	Likes json.Number `json:"likes"`
}

type tvData struct {
	Name        string      `json:"name"`
	Backgrounds []imageData `json:"showbackground"`
	Banners     []imageData `json:"tvbanner"`
	Posters     []imageData `json:"tvposter"`
	Thumbs      []imageData `json:"tvthumb"`
	Logos       []imageData `json:"hdtvlogo"`
}

// FindCandidates queries the Fanart search endpoint; shows without any
// artwork are skipped since this provider has nothing to contribute for
// them.
func (s *service) FindCandidates(ctx context.Context, title string, _ *int) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Set("section", "tv")
	params.Set("s", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", provider.UserAgent)
	req.Header.Set("Referer", "https://fanart.tv")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Alt-Used", "fanart.tv")

	body, err := provider.Get(req, s.client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search Fanart")
	}

	items := []searchItem{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal search response")
	}

	candidates := make([]domain.Candidate, 0, len(items))
	for _, item := range items {
		if count, err := item.ImageCount.Int64(); err != nil || count <= 0 {
			continue
		}
		candidates = append(candidates, domain.Candidate{ID: item.ID, Title: item.Title})
	}

	s.log.Debug().Str("title", title).Int("count", len(candidates)).Msg("Fanart search complete")
	return candidates, nil
}

// GetSeriesByID fetches the artwork payload, consulting the cache first.
func (s *service) GetSeriesByID(ctx context.Context, id string) (*domain.Show, error) {
	key := domain.CacheKey{Provider: providerName, ID: id, DataType: dataTypeTV}

	body, err := s.cache.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		u := fmt.Sprintf("%s/%s?api_key=%s", detailsURL, url.PathEscape(id), url.QueryEscape(s.apiKey))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}
		return provider.Get(req, s.client)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch Fanart tv %s", id)
	}

	data := tvData{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal tv response")
	}

	show, err := domain.NewShow(domain.ShowInput{
		ID:     id,
		Titles: domain.Titles{domain.LanguageEnglish: data.Name},
		Images: domain.Images{
			Backdrop:  s.bestImage(data.Backgrounds),
			Banner:    s.bestImage(data.Banners),
			Folder:    s.bestImage(data.Posters),
			Landscape: s.bestImage(data.Thumbs),
			Logo:      s.bestImage(data.Logos),
		},
		Raw: body,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build canonical show")
	}
	return show, nil
}

// bestImage picks one image URL, weighting preferred languages first and
// keeping the pick deterministic via likes and id.
func (s *service) bestImage(images []imageData) string {
	weights := make(map[string]int, len(s.preferredLangs))
	for weight, lang := range s.preferredLangs {
		weights[lang] = weight
	}

	preferred := make([]imageData, 0, len(images))
	for _, image := range images {
		if _, ok := weights[image.Lang]; ok {
			preferred = append(preferred, image)
		}
	}
	if len(preferred) == 0 {
		return ""
	}

	sort.SliceStable(preferred, func(i, j int) bool {
		wi, wj := weights[preferred[i].Lang], weights[preferred[j].Lang]
		if wi != wj {
			return wi < wj
		}
		li, _ := preferred[i].Likes.Int64()
		lj, _ := preferred[j].Likes.Int64()
		if li != lj {
			return li < lj
		}
		ii, _ := preferred[i].ID.Int64()
		ij, _ := preferred[j].ID.Int64()
		return ii < ij
	})

	return preferred[0].URL
}
