package domain

import "github.com/pkg/errors"

// Language identifies the language of a title string.
type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageJapanese Language = "ja"
	LanguageRomaji   Language = "x-jat"
	LanguageUnknown  Language = ""
)

// Titles maps languages to title strings.
type Titles map[Language]string

// Native returns the romanized title if present, the native-script title
// otherwise. It never returns both.
func (t Titles) Native() string {
	if title, ok := t[LanguageRomaji]; ok && title != "" {
		return title
	}
	return t[LanguageJapanese]
}

// English returns the English title, if any.
func (t Titles) English() string {
	return t[LanguageEnglish]
}

// Main returns the best display title: English, then romaji, then native.
func (t Titles) Main() string {
	if title := t.English(); title != "" {
		return title
	}
	return t.Native()
}

// EpisodeType distinguishes regular episodes from specials.
type EpisodeType string

const (
	EpisodeRegular EpisodeType = "regular"
	EpisodeSpecial EpisodeType = "special"
)

// MPAA is a content rating over a fixed closed set of rating boards.
type MPAA string

const (
	MPAAAo       MPAA = "AO"
	MPAAApproved MPAA = "APPROVED"
	MPAAE        MPAA = "E"
	MPAAEc       MPAA = "EC"
	MPAAG        MPAA = "G"
	MPAAM        MPAA = "M"
	MPAANc17     MPAA = "NC-17"
	MPAANr       MPAA = "NR"
	MPAAPg       MPAA = "PG"
	MPAAPg13     MPAA = "PG-13"
	MPAAR        MPAA = "R"
	MPAARp       MPAA = "RP"
	MPAAT        MPAA = "T"
	MPAATv14     MPAA = "TV-14"
	MPAATvG      MPAA = "TV-G"
	MPAATvMa     MPAA = "TV-MA"
	MPAATvPg     MPAA = "TV-PG"
	MPAATvY      MPAA = "TV-Y"
	MPAATvY7     MPAA = "TV-Y7"
	MPAATvY7Fv   MPAA = "TV-Y7-FV"
	MPAAUr       MPAA = "UR"
	MPAAX        MPAA = "X"
	MPAAXxx      MPAA = "XXX"
)

var mpaaValues = map[MPAA]struct{}{
	MPAAAo: {}, MPAAApproved: {}, MPAAE: {}, MPAAEc: {}, MPAAG: {},
	MPAAM: {}, MPAANc17: {}, MPAANr: {}, MPAAPg: {}, MPAAPg13: {},
	MPAAR: {}, MPAARp: {}, MPAAT: {}, MPAATv14: {}, MPAATvG: {},
	MPAATvMa: {}, MPAATvPg: {}, MPAATvY: {}, MPAATvY7: {}, MPAATvY7Fv: {},
	MPAAUr: {}, MPAAX: {}, MPAAXxx: {},
}

// ParseMPAA maps a raw rating-board value onto the closed MPAA set. Unknown
// values fail with ErrUnmappedEnum; sources with a documented default must
// apply it before calling.
func ParseMPAA(raw string) (MPAA, error) {
	value := MPAA(raw)
	if _, ok := mpaaValues[value]; !ok {
		return "", errors.Wrapf(ErrUnmappedEnum, "mpaa %q", raw)
	}
	return value, nil
}

// SourceMaterial classifies what a show was adapted from.
type SourceMaterial string

const (
	SourceGame       SourceMaterial = "game"
	SourceLightNovel SourceMaterial = "light_novel"
	SourceManga      SourceMaterial = "manga"
	SourceOriginal   SourceMaterial = "original"
	SourceOther      SourceMaterial = "other"
)

var sourceMaterialValues = map[SourceMaterial]struct{}{
	SourceGame: {}, SourceLightNovel: {}, SourceManga: {},
	SourceOriginal: {}, SourceOther: {},
}

// ParseSourceMaterial maps a raw value onto the closed SourceMaterial set.
func ParseSourceMaterial(raw string) (SourceMaterial, error) {
	value := SourceMaterial(raw)
	if _, ok := sourceMaterialValues[value]; !ok {
		return "", errors.Wrapf(ErrUnmappedEnum, "source material %q", raw)
	}
	return value, nil
}
