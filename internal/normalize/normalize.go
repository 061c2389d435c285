// Package normalize holds the field-level conversion rules that turn raw
// heterogeneous provider values into canonical-model-compliant ones. Every
// function is pure and independently testable.
package normalize

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// SentinelGenre is always present in a normalized genre set, regardless of
// source data.
const SentinelGenre = "Anime"

// ErrMalformedDate indicates non-empty date text that could not be parsed.
var ErrMalformedDate = errors.New("malformed date")

// dateLayouts covers full ISO-8601 calendar dates plus the year and
// year-month partials the AniDB API emits.
var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// Date parses raw date text into a UTC calendar date. Blank input yields nil;
// unparseable input is a hard error, not a silent nil.
func Date(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &parsed, nil
		}
	}

	return nil, errors.Wrapf(ErrMalformedDate, "%q", value)
}

// Year derives the premiere year. Any case other than a present premiere date
// yields nil.
func Year(premiered *time.Time) *int {
	if premiered == nil {
		return nil
	}
	year := premiered.Year()
	return &year
}

// Genres canonicalizes a raw tag set: each tag is title-cased and the result
// is unioned with the sentinel tag. Absent input yields the sentinel-only
// set. The operation is idempotent.
func Genres(tags []string) []string {
	set := map[string]struct{}{SentinelGenre: {}}
	for _, tag := range tags {
		if canonical := Capitalize(tag); canonical != "" {
			set[canonical] = struct{}{}
		}
	}

	result := make([]string, 0, len(set))
	for tag := range set {
		result = append(result, tag)
	}
	sort.Strings(result)
	return result
}

// Rating parses raw rating text as an exact-precision decimal, never via
// binary floating point. Blank or invalid input yields nil, never zero.
func Rating(value string) *decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil
	}
	return &parsed
}

// UniqueStrings trims, deduplicates and sorts a list of names. Empty input
// yields nil.
func UniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	if len(result) == 0 {
		return nil
	}
	sort.Strings(result)
	return result
}

// ImageURL resolves a raw image value against an optional base URL. Blank
// values yield ""; an already-absolute value is returned unchanged; a
// relative value is joined with the base exactly once.
func ImageURL(base, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if base == "" {
		return value
	}
	if parsed, err := url.Parse(value); err == nil && parsed.IsAbs() {
		return value
	}

	joined, err := url.JoinPath(base, value)
	if err != nil {
		return value
	}
	return joined
}

// String trims surrounding whitespace.
func String(value string) string {
	return strings.TrimSpace(value)
}
