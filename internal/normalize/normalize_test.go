package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "full date", value: "2013-04-03", want: "2013-04-03"},
		{name: "year and month", value: "2013-04", want: "2013-04-01"},
		{name: "year only", value: "2013", want: "2013-01-01"},
		{name: "padded", value: "  2013-04-03  ", want: "2013-04-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.value)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestDateBlank(t *testing.T) {
	got, err := Date("   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDateMalformed(t *testing.T) {
	for _, value := range []string{"Apr 3, 2013", "2013-13-01", "soon"} {
		_, err := Date(value)
		assert.ErrorIs(t, err, ErrMalformedDate, value)
	}
}

func TestYear(t *testing.T) {
	assert.Nil(t, Year(nil))

	premiered := time.Date(2013, 4, 3, 0, 0, 0, 0, time.UTC)
	got := Year(&premiered)
	require.NotNil(t, got)
	assert.Equal(t, 2013, *got)
}

func TestGenres(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{name: "empty input yields sentinel only", tags: nil, want: []string{"Anime"}},
		{name: "tags are title cased", tags: []string{"action", "sci-fi"}, want: []string{"Action", "Anime", "Sci-Fi"}},
		{name: "sentinel never duplicated", tags: []string{"anime"}, want: []string{"Anime"}},
		{name: "duplicates collapse", tags: []string{"Drama", "drama", "DRAMA"}, want: []string{"Anime", "Drama"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Genres(tt.tags)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Genres(got), "must be idempotent")
		})
	}
}

func TestRating(t *testing.T) {
	got := Rating("5.60")
	require.NotNil(t, got)
	// Exact decimal semantics: "5.60" is 5.60, not 5.6000000000000005.
	assert.True(t, got.Equal(decimal.RequireFromString("5.60")))
	assert.Equal(t, "5.6", got.String())

	assert.Nil(t, Rating(""))
	assert.Nil(t, Rating("   "))
	assert.Nil(t, Rating("N/A"))
}

func TestUniqueStrings(t *testing.T) {
	assert.Nil(t, UniqueStrings(nil))
	assert.Nil(t, UniqueStrings([]string{"", "  "}))
	assert.Equal(t,
		[]string{"Madhouse", "Sunrise"},
		UniqueStrings([]string{"Sunrise", " Madhouse ", "Sunrise"}),
	)
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		value string
		want  string
	}{
		{name: "blank value", base: "https://cdn.example.com", value: "", want: ""},
		{name: "no base", base: "", value: "12345.jpg", want: "12345.jpg"},
		{name: "relative joined once", base: "https://cdn.example.com/images", value: "12345.jpg", want: "https://cdn.example.com/images/12345.jpg"},
		{name: "absolute untouched", base: "https://cdn.example.com/images", value: "https://other.example.com/a.jpg", want: "https://other.example.com/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImageURL(tt.base, tt.value)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ImageURL(tt.base, got), "must be idempotent")
		})
	}
}
