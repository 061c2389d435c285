package tmdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danie1k/anime-metadata/internal/domain"
)

const detailsPayload = `{
	"id": 1429,
	"name": "Attack on Titan",
	"original_name": "進撃の巨人",
	"overview": "Humanity fights back.",
	"first_air_date": "2013-04-07",
	"last_air_date": "2023-11-05",
	"vote_average": 8.66,
	"genres": [{"id": 16, "name": "animation"}, {"id": 10765, "name": "sci-fi & fantasy"}],
	"networks": [{"id": 94, "name": "MBS"}],
	"production_companies": [{"id": 21444, "name": "Wit Studio"}],
	"backdrop_path": "/backdrop.jpg",
	"poster_path": "/poster.jpg"
}`

func TestMapDetails(t *testing.T) {
	details := tvDetails{}
	require.NoError(t, json.Unmarshal([]byte(detailsPayload), &details))

	show, err := mapDetails(details, []byte(detailsPayload))
	require.NoError(t, err)

	assert.Equal(t, "1429", show.ID)
	assert.Equal(t, domain.Titles{
		domain.LanguageEnglish:  "Attack on Titan",
		domain.LanguageJapanese: "進撃の巨人",
	}, show.Titles)
	assert.Equal(t, "2013-04-07", show.Dates.Premiered.Format("2006-01-02"))
	require.NotNil(t, show.Dates.Year)
	assert.Equal(t, 2013, *show.Dates.Year)

	assert.Equal(t, []string{"Animation", "Anime", "Sci-Fi & Fantasy"}, show.Genres)
	assert.Equal(t, []string{"MBS", "Wit Studio"}, show.Studios)

	require.NotNil(t, show.Rating)
	assert.Equal(t, "8.66", show.Rating.String())

	// Relative artwork paths are resolved against the TMDB image base.
	assert.Equal(t, "https://www.themoviedb.org/t/p/original/backdrop.jpg", show.Images.Backdrop)
	assert.Equal(t, "https://www.themoviedb.org/t/p/original/poster.jpg", show.Images.Folder)
}

func TestMapDetailsRejectsMalformedDate(t *testing.T) {
	details := tvDetails{}
	require.NoError(t, json.Unmarshal([]byte(detailsPayload), &details))
	details.FirstAirDate = "April 2013"

	_, err := mapDetails(details, nil)
	assert.Error(t, err)
}

func TestSearchResponseParsing(t *testing.T) {
	payload := `{"page":1,"results":[{"id":1429,"name":"Attack on Titan"}],"total_pages":1}`

	response := searchResponse{}
	require.NoError(t, json.Unmarshal([]byte(payload), &response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, "1429", response.Results[0].ID.String())
}
