package anidb

import (
	"context"
	"encoding/xml"
	"iter"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/danie1k/anime-metadata/internal/domain"
	"github.com/danie1k/anime-metadata/internal/normalize"
	"github.com/danie1k/anime-metadata/internal/provider"
)

const (
	apiURL       = "http://api.anidb.net:9001/httpapi"
	imageBaseURL = "https://cdn-eu.anidb.net/images/main"

	providerName  = "anidb"
	dataTypeAnime = "httpapi,anime"
)

var episodeNoRE = regexp.MustCompile(`(\d+)`)

type service struct {
	log        zerolog.Logger
	client     *http.Client
	cache      domain.CacheRepo
	titles     *TitleStore
	clientName string
	clientVer  string
	sourceTags map[int]string
}

// NewService creates the AniDB metadata provider. Candidate search goes
// through the titles dump; detail lookups hit the HTTP API. sourceTags maps
// AniDB tag IDs to the source-material tag branch and falls back to the
// built-in set when nil.
func NewService(log zerolog.Logger, config *domain.Config, cache domain.CacheRepo, titles *TitleStore, sourceTags map[int]string) domain.Provider {
	if sourceTags == nil {
		sourceTags = DefaultSourceTags
	}
	return &service{
		log:        log.With().Str("module", "anidb").Logger(),
		client:     &http.Client{},
		cache:      cache,
		titles:     titles,
		clientName: config.AnidbClient,
		clientVer:  strconv.Itoa(config.AnidbClientVer),
		sourceTags: sourceTags,
	}
}

func (s *service) Name() string { return providerName }

// StreamCandidates yields the whole titles dump; AniDB has no search endpoint
// and the dump covers every catalogued title, so resolution streams over it
// and stops as soon as an exact match appears.
func (s *service) StreamCandidates(_ context.Context, _ string, _ *int) iter.Seq[domain.Candidate] {
	return s.titles.All()
}

// FindCandidates materializes the titles dump. Callers that can consume a
// stream should prefer StreamCandidates.
func (s *service) FindCandidates(ctx context.Context, title string, year *int) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	for candidate := range s.StreamCandidates(ctx, title, year) {
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

type animeXML struct {
	ID          string `xml:"id,attr"`
	StartDate   string `xml:"startdate"`
	EndDate     string `xml:"enddate"`
	Description string `xml:"description"`
	Picture     string `xml:"picture"`
	Titles      struct {
		Title []titleXML `xml:"title"`
	} `xml:"titles"`
	Ratings struct {
		Permanent string `xml:"permanent"`
	} `xml:"ratings"`
	Creators struct {
		Name []struct {
			Type string `xml:"type,attr"`
			Name string `xml:",chardata"`
		} `xml:"name"`
	} `xml:"creators"`
	Tags struct {
		Tag []struct {
			ID   int    `xml:"id,attr"`
			Name string `xml:"name"`
		} `xml:"tag"`
	} `xml:"tags"`
	Characters struct {
		Character []struct {
			Type   string `xml:"type,attr"`
			Name   string `xml:"name"`
			Seiyuu string `xml:"seiyuu"`
		} `xml:"character"`
	} `xml:"characters"`
	Episodes struct {
		Episode []struct {
			ID   string `xml:"id,attr"`
			Epno struct {
				Type  int    `xml:"type,attr"`
				Value string `xml:",chardata"`
			} `xml:"epno"`
			AirDate string     `xml:"airdate"`
			Rating  string     `xml:"rating"`
			Summary string     `xml:"summary"`
			Title   []titleXML `xml:"title"`
		} `xml:"episode"`
	} `xml:"episodes"`
}

type titleXML struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// GetSeriesByID fetches the anime payload from the HTTP API, consulting the
// cache first. The API signals errors inside a 200 response, so those bodies
// are rejected before they can be cached.
func (s *service) GetSeriesByID(ctx context.Context, id string) (*domain.Show, error) {
	key := domain.CacheKey{Provider: providerName, ID: id, DataType: dataTypeAnime}

	body, err := s.cache.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		params := url.Values{}
		params.Set("request", "anime")
		params.Set("client", s.clientName)
		params.Set("clientver", s.clientVer)
		params.Set("protover", "1")
		params.Set("aid", id)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}

		body, err := provider.Get(req, s.client)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(strings.TrimSpace(string(body)), "<error") {
			return nil, errors.Errorf("anidb api error for anime %s: %s", id, strings.TrimSpace(string(body)))
		}
		return body, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch AniDB anime %s", id)
	}

	anime := animeXML{}
	if err := xml.Unmarshal(body, &anime); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal anime response")
	}

	return s.mapAnime(anime, body)
}

func (s *service) mapAnime(anime animeXML, raw []byte) (*domain.Show, error) {
	source, err := s.sourceMaterial(anime)
	if err != nil {
		return nil, err
	}

	staff := map[string][]string{}
	for _, creator := range anime.Creators.Name {
		staff[creator.Type] = append(staff[creator.Type], normalize.ReverseNameOrder(creator.Name))
	}

	show, err := domain.NewShow(domain.ShowInput{
		ID:             anime.ID,
		Titles:         mapTitles(anime.Titles.Title),
		Premiered:      anime.StartDate,
		Ended:          anime.EndDate,
		Genres:         s.genres(anime),
		Studios:        staff["Animation Work"],
		Rating:         anime.Ratings.Permanent,
		SourceMaterial: &source,
		Plot:           anime.Description,
		ImageBaseURL:   imageBaseURL,
		Images: domain.Images{
			Folder: anime.Picture,
		},
		Staff: domain.Staff{
			Director:     normalize.CollectStaff(staff, "direction", "director"),
			Music:        normalize.CollectStaff(staff, "music"),
			Screenwriter: normalize.CollectStaff(staff, "composition"),
		},
		Characters: mapCharacters(anime),
		Episodes:   mapEpisodes(anime),
		Raw:        raw,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build canonical show")
	}
	return show, nil
}

// mapTitles keeps main and official titles in the known languages, preferring
// main. AniDB suffixes some titles with a period to dodge its own uniqueness
// constraint; the suffix is not part of the title.
func mapTitles(titles []titleXML) domain.Titles {
	known := map[string]domain.Language{
		"en":    domain.LanguageEnglish,
		"ja":    domain.LanguageJapanese,
		"x-jat": domain.LanguageRomaji,
	}

	main := domain.Titles{}
	official := domain.Titles{}
	for _, title := range titles {
		lang, ok := known[title.Lang]
		if !ok {
			continue
		}

		value := strings.TrimRight(strings.TrimSpace(title.Value), ".")
		switch title.Type {
		case "main", "":
			if _, ok := main[lang]; !ok {
				main[lang] = value
			}
		case "official":
			if _, ok := official[lang]; !ok {
				official[lang] = value
			}
		}
	}

	for lang, value := range official {
		if _, ok := main[lang]; !ok {
			main[lang] = value
		}
	}
	return main
}

// genres are the tag names outside the source-material branch.
func (s *service) genres(anime animeXML) []string {
	var genres []string
	for _, tag := range anime.Tags.Tag {
		if _, ok := s.sourceTags[tag.ID]; ok {
			continue
		}
		genres = append(genres, tag.Name)
	}
	return genres
}

// sourceMaterial expects exactly one tag from the source-material branch and
// classifies it. Zero or several such tags, or one outside the known
// keywords, means the mapping table needs updating, which is surfaced rather
// than guessed over.
func (s *service) sourceMaterial(anime animeXML) (domain.SourceMaterial, error) {
	var matched []string
	for _, tag := range anime.Tags.Tag {
		if _, ok := s.sourceTags[tag.ID]; ok {
			matched = append(matched, tag.Name)
		}
	}
	if len(matched) != 1 {
		return "", errors.Wrapf(domain.ErrUnmappedEnum,
			"anime %s carries %d source material tags %q, want exactly one", anime.ID, len(matched), matched)
	}

	name := strings.ToLower(matched[0])
	switch {
	case strings.Contains(name, "manga"), name == "manhua", name == "manhwa":
		return domain.SourceManga, nil
	case strings.Contains(name, "game"):
		return domain.SourceGame, nil
	case strings.Contains(name, "novel"):
		return domain.SourceLightNovel, nil
	case strings.Contains(name, "original"):
		return domain.SourceOriginal, nil
	default:
		return "", errors.Wrapf(domain.ErrUnmappedEnum, "unclassified source material tag %q", matched[0])
	}
}

func mapCharacters(anime animeXML) []domain.Character {
	var characters []domain.Character
	for _, c := range anime.Characters.Character {
		name := strings.TrimSpace(c.Name)
		seiyuu := strings.TrimSpace(c.Seiyuu)
		if name == "" || seiyuu == "" {
			continue
		}
		if !strings.Contains(c.Type, "main character") && !strings.Contains(c.Type, "secondary cast") {
			continue
		}
		characters = append(characters, domain.Character{
			Name:   name,
			Seiyuu: normalize.ReverseNameOrder(seiyuu),
		})
	}
	return characters
}

// mapEpisodes keeps regular (type 1) and special (type 2) episodes; openings,
// endings and trailers are skipped.
func mapEpisodes(anime animeXML) []domain.EpisodeInput {
	var episodes []domain.EpisodeInput
	for _, ep := range anime.Episodes.Episode {
		var epType domain.EpisodeType
		switch ep.Epno.Type {
		case 1:
			epType = domain.EpisodeRegular
		case 2:
			epType = domain.EpisodeSpecial
		default:
			continue
		}

		m := episodeNoRE.FindStringSubmatch(ep.Epno.Value)
		if m == nil {
			continue
		}
		no, err := strconv.Atoi(m[1])
		if err != nil || no <= 0 {
			continue
		}

		episodes = append(episodes, domain.EpisodeInput{
			No:        no,
			Type:      epType,
			ID:        ep.ID,
			Plot:      ep.Summary,
			Premiered: ep.AirDate,
			Rating:    ep.Rating,
			Titles:    mapTitles(ep.Title),
		})
	}
	return episodes
}
