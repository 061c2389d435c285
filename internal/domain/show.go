package domain

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/danie1k/anime-metadata/internal/normalize"
)

// ShowDate holds the airing window of a show. Year is derived from Premiered
// and is never set independently of it.
type ShowDate struct {
	Premiered *time.Time `json:"premiered,omitempty"`
	Ended     *time.Time `json:"ended,omitempty"`
	Year      *int       `json:"year,omitempty"`
}

// Images holds the named artwork roles of a show. All non-empty values are
// absolute URLs once the Show is constructed.
type Images struct {
	Backdrop  string `json:"backdrop,omitempty"`
	Banner    string `json:"banner,omitempty"`
	Folder    string `json:"folder,omitempty"`
	Landscape string `json:"landscape,omitempty"`
	Logo      string `json:"logo,omitempty"`
}

// Staff holds per-role name lists, each deduplicated and sorted.
type Staff struct {
	Director     []string `json:"director,omitempty"`
	GuestStar    []string `json:"guest_star,omitempty"`
	Music        []string `json:"music,omitempty"`
	Screenwriter []string `json:"screenwriter,omitempty"`
}

// Character pairs a character name with its voice actor.
type Character struct {
	Name   string `json:"name"`
	Seiyuu string `json:"seiyuu"`
}

// Episode is an immutable canonical episode record.
type Episode struct {
	No        int              `json:"no"`
	Type      EpisodeType      `json:"type"`
	ID        string           `json:"id"`
	Plot      string           `json:"plot,omitempty"`
	Premiered *time.Time       `json:"premiered,omitempty"`
	Rating    *decimal.Decimal `json:"rating,omitempty"`
	Titles    Titles           `json:"titles"`
}

// Show is the canonical, source-independent series record. It is constructed
// once via NewShow and never mutated afterwards.
type Show struct {
	ID             string           `json:"id"`
	Titles         Titles           `json:"titles"`
	Dates          ShowDate         `json:"dates"`
	Genres         []string         `json:"genres"`
	Studios        []string         `json:"studios,omitempty"`
	Rating         *decimal.Decimal `json:"rating,omitempty"`
	MPAA           *MPAA            `json:"mpaa,omitempty"`
	SourceMaterial *SourceMaterial  `json:"source_material,omitempty"`
	Plot           string           `json:"plot,omitempty"`
	Images         Images           `json:"images"`
	Staff          Staff            `json:"staff"`
	Characters     []Character      `json:"characters,omitempty"`
	Episodes       []Episode        `json:"episodes,omitempty"`

	// Raw optionally carries the original provider payload for diagnostics.
	// It participates in no invariant.
	Raw []byte `json:"-"`
}

// EpisodeInput is the raw, pre-normalization shape of an episode.
type EpisodeInput struct {
	No        int
	Type      EpisodeType
	ID        string
	Plot      string
	Premiered string
	Rating    string
	Titles    Titles
}

// ShowInput is the raw, pre-normalization shape of a show, produced once per
// source by its adapter.
type ShowInput struct {
	ID             string
	Titles         Titles
	Premiered      string
	Ended          string
	Genres         []string
	Studios        []string
	Rating         string
	MPAA           *MPAA
	SourceMaterial *SourceMaterial
	Plot           string
	ImageBaseURL   string
	Images         Images
	Staff          Staff
	Characters     []Character
	Episodes       []EpisodeInput
	Raw            []byte
}

// NewShow builds a canonical Show from raw per-source values. Any field-level
// failure aborts the whole construction; a partially-normalized Show is never
// returned.
func NewShow(in ShowInput) (*Show, error) {
	if in.ID == "" {
		return nil, errors.Wrap(ErrValidation, "show id is required")
	}

	titles := trimTitles(in.Titles)
	if len(titles) == 0 {
		return nil, errors.Wrap(ErrValidation, "at least one title is required")
	}

	premiered, err := normalize.Date(in.Premiered)
	if err != nil {
		return nil, errors.Wrap(err, "premiere date")
	}
	ended, err := normalize.Date(in.Ended)
	if err != nil {
		return nil, errors.Wrap(err, "end date")
	}

	episodes := make([]Episode, 0, len(in.Episodes))
	for _, raw := range in.Episodes {
		ep, err := newEpisode(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "episode %d", raw.No)
		}
		episodes = append(episodes, *ep)
	}
	sortEpisodes(episodes)

	show := &Show{
		ID:     in.ID,
		Titles: titles,
		Dates: ShowDate{
			Premiered: premiered,
			Ended:     ended,
			Year:      normalize.Year(premiered),
		},
		Genres:         normalize.Genres(in.Genres),
		Studios:        normalize.UniqueStrings(in.Studios),
		Rating:         normalize.Rating(in.Rating),
		MPAA:           in.MPAA,
		SourceMaterial: in.SourceMaterial,
		Plot:           normalize.CleanText(in.Plot),
		Images: Images{
			Backdrop:  normalize.ImageURL(in.ImageBaseURL, in.Images.Backdrop),
			Banner:    normalize.ImageURL(in.ImageBaseURL, in.Images.Banner),
			Folder:    normalize.ImageURL(in.ImageBaseURL, in.Images.Folder),
			Landscape: normalize.ImageURL(in.ImageBaseURL, in.Images.Landscape),
			Logo:      normalize.ImageURL(in.ImageBaseURL, in.Images.Logo),
		},
		Staff: Staff{
			Director:     normalize.UniqueStrings(in.Staff.Director),
			GuestStar:    normalize.UniqueStrings(in.Staff.GuestStar),
			Music:        normalize.UniqueStrings(in.Staff.Music),
			Screenwriter: normalize.UniqueStrings(in.Staff.Screenwriter),
		},
		Characters: uniqueCharacters(in.Characters),
		Episodes:   episodes,
		Raw:        in.Raw,
	}

	return show, nil
}

func newEpisode(in EpisodeInput) (*Episode, error) {
	if in.No <= 0 {
		return nil, errors.Wrapf(ErrValidation, "episode number %d is not positive", in.No)
	}

	epType := in.Type
	if epType == "" {
		epType = EpisodeRegular
	}

	premiered, err := normalize.Date(in.Premiered)
	if err != nil {
		return nil, errors.Wrap(err, "premiere date")
	}

	return &Episode{
		No:        in.No,
		Type:      epType,
		ID:        in.ID,
		Plot:      normalize.CleanText(in.Plot),
		Premiered: premiered,
		Rating:    normalize.Rating(in.Rating),
		Titles:    trimTitles(in.Titles),
	}, nil
}

func trimTitles(titles Titles) Titles {
	result := Titles{}
	for lang, title := range titles {
		if trimmed := normalize.String(title); trimmed != "" {
			result[lang] = trimmed
		}
	}
	return result
}

func uniqueCharacters(characters []Character) []Character {
	seen := make(map[Character]struct{}, len(characters))
	result := make([]Character, 0, len(characters))
	for _, c := range characters {
		if c.Name == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Seiyuu < result[j].Seiyuu
	})
	if len(result) == 0 {
		return nil
	}
	return result
}

// sortEpisodes orders by episode number, regulars before specials that share
// a number, then premiere date with undated episodes last.
func sortEpisodes(episodes []Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].No != episodes[j].No {
			return episodes[i].No < episodes[j].No
		}
		if episodes[i].Type != episodes[j].Type {
			return episodes[i].Type == EpisodeRegular
		}
		pi, pj := episodes[i].Premiered, episodes[j].Premiered
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return pi.Before(*pj)
		}
	})
}
