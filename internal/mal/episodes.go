package mal

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly"
	"github.com/gocolly/colly/extensions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/danie1k/anime-metadata/internal/domain"
)

// airedLayout is the date format used on MAL episode pages, e.g. "Apr 3, 2013".
const airedLayout = "Jan 2, 2006"

// collyScraper pulls episode lists from the MAL website. The API v2 has no
// episode endpoint, so the list page is scraped instead, with responses
// cached on disk between runs.
type collyScraper struct {
	log      zerolog.Logger
	cacheDir string
}

func newEpisodeScraper(log zerolog.Logger, rootPath string) *collyScraper {
	return &collyScraper{
		log:      log,
		cacheDir: filepath.Join(rootPath, "mal_cache"),
	}
}

func (c *collyScraper) ScrapeEpisodes(animeID string) ([]domain.EpisodeInput, error) {
	cc := colly.NewCollector(
		colly.AllowedDomains("myanimelist.net"),
		colly.CacheDir(c.cacheDir),
	)

	extensions.RandomUserAgent(cc)

	var episodes []domain.EpisodeInput
	cc.OnHTML("table.episode_list tr.episode-list-data", func(e *colly.HTMLElement) {
		no, err := strconv.Atoi(strings.TrimSpace(e.ChildText("td.episode-number")))
		if err != nil || no <= 0 {
			return
		}

		episodes = append(episodes, domain.EpisodeInput{
			No:        no,
			Type:      domain.EpisodeRegular,
			ID:        fmt.Sprintf("%s/%d", animeID, no),
			Premiered: isoAired(e.ChildText("td.episode-aired")),
			Titles: domain.Titles{
				domain.LanguageEnglish:  strings.TrimSpace(e.ChildText("td.episode-title a")),
				domain.LanguageJapanese: japaneseTitle(e.ChildText("td.episode-title span")),
			},
		})
	})

	cc.OnRequest(func(r *colly.Request) {
		c.log.Debug().Str("url", r.URL.String()).Msg("visiting")
	})

	if err := cc.Visit(fmt.Sprintf("https://myanimelist.net/anime/%s/_/episode", animeID)); err != nil {
		return nil, errors.Wrapf(err, "failed to scrape episode list for anime %s", animeID)
	}
	cc.Wait()

	return episodes, nil
}

// isoAired converts the page's aired date to ISO form; unknown dates ("N/A")
// come back empty so no premiere date is recorded.
func isoAired(value string) string {
	t, err := time.Parse(airedLayout, strings.TrimSpace(value))
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// japaneseTitle extracts the kanji part of the title span, which carries
// "kanji (romaji)" when both are present.
func japaneseTitle(value string) string {
	value, _, _ = strings.Cut(value, "(")
	return strings.TrimSpace(value)
}
