package shinden

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/danie1k/anime-metadata/internal/domain"
	"github.com/danie1k/anime-metadata/internal/provider"
)

const (
	baseURL   = "https://shinden.pl"
	seriesURL = baseURL + "/series"

	providerName   = "shinden"
	dataTypeSeries = "web,series"

	// maxSearchPages caps search pagination; beyond that the score-sorted
	// results are noise anyway.
	maxSearchPages = 5
)

// service scrapes shinden.pl, a Polish catalog site with no API. Search is
// paginated HTML, details are one series page per show.
type service struct {
	log    zerolog.Logger
	client *http.Client
	cache  domain.CacheRepo
}

// NewService creates the Shinden metadata provider. No credentials are
// required.
func NewService(log zerolog.Logger, config *domain.Config, cache domain.CacheRepo) domain.Provider {
	return &service{
		log:    log.With().Str("module", "shinden").Logger(),
		client: &http.Client{},
		cache:  cache,
	}
}

func (s *service) Name() string { return providerName }

// StreamCandidates pages through the search results lazily, so an exact title
// match on page one never fetches page two. A fetch or parse failure ends the
// sequence early and is logged.
func (s *service) StreamCandidates(ctx context.Context, title string, year *int) iter.Seq[domain.Candidate] {
	return func(yield func(domain.Candidate) bool) {
		pageURL := seriesURL + "?" + searchParams(title, year).Encode()
		referer := baseURL

		for page := 0; page < maxSearchPages; page++ {
			doc, err := s.fetchDocument(ctx, pageURL, referer)
			if err != nil {
				s.log.Error().Err(err).Str("url", pageURL).Msg("failed to fetch search page")
				return
			}

			candidates, next := parseSearchPage(doc)
			if len(candidates) == 0 {
				return
			}
			for _, candidate := range candidates {
				if !yield(candidate) {
					return
				}
			}

			if next == "" {
				return
			}
			referer = pageURL
			pageURL = next
		}
	}
}

// FindCandidates materializes the paginated search. Callers that can consume
// a stream should prefer StreamCandidates.
func (s *service) FindCandidates(ctx context.Context, title string, year *int) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	for candidate := range s.StreamCandidates(ctx, title, year) {
		candidates = append(candidates, candidate)
	}

	s.log.Debug().Str("title", title).Int("count", len(candidates)).Msg("Shinden search complete")
	return candidates, nil
}

// GetSeriesByID fetches the series page, consulting the cache first, and maps
// it into the canonical model.
func (s *service) GetSeriesByID(ctx context.Context, id string) (*domain.Show, error) {
	key := domain.CacheKey{Provider: providerName, ID: id, DataType: dataTypeSeries}

	body, err := s.cache.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		req, err := s.newRequest(ctx, fmt.Sprintf("%s/%s", seriesURL, url.PathEscape(id)), baseURL)
		if err != nil {
			return nil, err
		}
		return provider.Get(req, s.client)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch Shinden series %s", id)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse series page")
	}

	return mapSeries(id, doc, body)
}

func (s *service) newRequest(ctx context.Context, u, referer string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", provider.UserAgent)
	req.Header.Set("Referer", referer)
	return req, nil
}

func (s *service) fetchDocument(ctx context.Context, u, referer string) (*goquery.Document, error) {
	req, err := s.newRequest(ctx, u, referer)
	if err != nil {
		return nil, err
	}

	body, err := provider.Get(req, s.client)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page")
	}
	return doc, nil
}

// searchParams builds the query for the score-sorted contains search; a year
// hint becomes the premiere-year filter pair.
func searchParams(title string, year *int) url.Values {
	params := url.Values{}
	params.Set("search", title)
	params.Set("type", "contains")
	params.Set("sort_by", "score")
	params.Set("sort_order", "asc")
	if year != nil {
		params.Set("start_date_precision", "1")
		params.Set("year_from", strconv.Itoa(*year))
	}
	return params
}

// parseSearchPage extracts the result rows and the next-page URL, if any.
// Rows without a cover link are section headers, not results.
func parseSearchPage(doc *goquery.Document) ([]domain.Candidate, string) {
	var candidates []domain.Candidate

	doc.Find(".title-table ul.div-row").Each(func(_ int, row *goquery.Selection) {
		if row.Find("li.cover-col a").Length() == 0 {
			return
		}

		link := row.Find("li.desc-col a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		// Detail links look like /series/123-some-slug; the id is the
		// leading number of the last path segment.
		id := href[strings.LastIndex(href, "/")+1:]
		id, _, _ = strings.Cut(id, "-")
		title := strings.Join(strings.Fields(link.Text()), " ")
		if id == "" || title == "" {
			return
		}

		candidates = append(candidates, domain.Candidate{ID: id, Title: title})
	})

	next := ""
	if href, ok := doc.Find(".pagination-next a").First().Attr("href"); ok {
		next = nextPageURL(href)
	}
	return candidates, next
}

// nextPageURL makes the pagination href absolute and drops the per-request
// r307 token the site appends.
func nextPageURL(href string) string {
	parsed, err := url.Parse(baseURL + href)
	if err != nil {
		return ""
	}
	query := parsed.Query()
	query.Del("r307")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func mapSeries(id string, doc *goquery.Document, raw []byte) (*domain.Show, error) {
	title := strings.TrimSpace(doc.Find("h1.page-title .title").First().Text())
	genres, source := parseTags(doc)

	premiered, ended, mpaa, err := parseBasicInformation(doc)
	if err != nil {
		return nil, err
	}

	folder, _ := doc.Find(".title-cover a[href*='/images/']").First().Attr("href")

	show, err := domain.NewShow(domain.ShowInput{
		ID:             id,
		Titles:         domain.Titles{domain.LanguageEnglish: title},
		Premiered:      premiered,
		Ended:          ended,
		Genres:         genres,
		Rating:         parseRating(doc),
		MPAA:           mpaa,
		SourceMaterial: source,
		Plot:           doc.Find("#description").First().Text(),
		ImageBaseURL:   baseURL,
		Images: domain.Images{
			Folder: folder,
		},
		Raw: raw,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build canonical show")
	}
	return show, nil
}

func parseRating(doc *goquery.Document) string {
	value := strings.TrimSpace(doc.Find(".info-aside-rating-user").First().Text())
	return strings.ReplaceAll(value, ",", ".")
}

// parseTags splits the tag list into genres and the source-material tag,
// recognizable by its /source/ link target. Source labels are Polish
// (https://shinden.pl/source); unknown labels classify as Other.
func parseTags(doc *goquery.Document) ([]string, *domain.SourceMaterial) {
	var (
		genres []string
		source *domain.SourceMaterial
	)

	doc.Find(".info-top-table-highlight ul.tags a").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		text := strings.TrimSpace(link.Text())
		if text == "" {
			return
		}

		if strings.Contains(href, "/source/") {
			classified := classifySource(text)
			source = &classified
			return
		}
		genres = append(genres, text)
	})

	return genres, source
}

func classifySource(text string) domain.SourceMaterial {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "gra"), strings.Contains(text, "gry"), strings.Contains(text, "visual novel"):
		return domain.SourceGame
	case strings.Contains(text, "książka"), strings.Contains(text, "novel"):
		return domain.SourceLightNovel
	case strings.Contains(text, "manga"):
		return domain.SourceManga
	case strings.Contains(text, "oryginalna"):
		return domain.SourceOriginal
	default:
		return domain.SourceOther
	}
}

// parseBasicInformation walks the dt/dd pairs of the aside info list. Dates
// appear in Polish day.month.year form and are converted to ISO; an MPAA
// value outside the known board set is an error, matching the strict enum
// handling elsewhere.
func parseBasicInformation(doc *goquery.Document) (premiered, ended string, mpaa *domain.MPAA, err error) {
	var parseErr error

	doc.Find(".title-small-info dl.info-aside-list dt").Each(func(_ int, dt *goquery.Selection) {
		label := dt.Text()
		value := strings.TrimSpace(dt.NextFiltered("dd").Text())
		if value == "" {
			return
		}

		switch {
		case strings.Contains(label, "Data emisji"):
			premiered = isoDate(value)
		case strings.Contains(label, "Koniec emisji"):
			ended = isoDate(value)
		case strings.Contains(label, "MPAA"):
			parsed, err := domain.ParseMPAA(value)
			if err != nil {
				parseErr = err
				return
			}
			mpaa = &parsed
		}
	})

	if parseErr != nil {
		return "", "", nil, parseErr
	}
	return premiered, ended, mpaa, nil
}

// isoDate converts "24.10.2006" to ISO form. Anything else passes through
// unchanged so the model's strict date parsing rejects it.
func isoDate(value string) string {
	parsed, err := time.Parse("02.01.2006", value)
	if err != nil {
		return value
	}
	return parsed.Format("2006-01-02")
}
