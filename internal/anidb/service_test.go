package anidb

import (
	"encoding/xml"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danie1k/anime-metadata/internal/domain"
)

const animePayload = `<?xml version="1.0" encoding="UTF-8"?>
<anime id="30" restricted="false">
  <titles>
    <title xml:lang="x-jat" type="main">Monster.</title>
    <title xml:lang="ja" type="official">モンスター</title>
    <title xml:lang="en" type="official">Monster</title>
    <title xml:lang="de" type="official">Monster</title>
    <title xml:lang="en" type="synonym">Naoki Urasawa's Monster</title>
  </titles>
  <startdate>2004-04-07</startdate>
  <enddate>2005-09-28</enddate>
  <description>A surgeon saves the wrong life. http://anidb.net/ch123 [Johan Liebert] appears.
Source: Wikipedia</description>
  <picture>30.jpg</picture>
  <ratings>
    <permanent count="4296">8.76</permanent>
    <temporary count="105">8.20</temporary>
  </ratings>
  <creators>
    <name id="1" type="Direction">Kojima Masayuki</name>
    <name id="2" type="Music">Haishima Kuniaki</name>
    <name id="3" type="Series Composition">Urasawa Naoki</name>
    <name id="4" type="Animation Work">Madhouse</name>
  </creators>
  <tags>
    <tag id="2798" weight="600"><name>manga</name></tag>
    <tag id="922" weight="400"><name>thriller</name></tag>
    <tag id="1357" weight="300"><name>psychological</name></tag>
  </tags>
  <characters>
    <character id="10" type="main character in">
      <name>Kenzou Tenma</name>
      <seiyuu id="20">Kiuchi Hidenobu</seiyuu>
    </character>
    <character id="11" type="secondary cast in">
      <name>Nina Fortner</name>
      <seiyuu id="21">Noto Mamiko</seiyuu>
    </character>
    <character id="12" type="appears in">
      <name>Extra</name>
      <seiyuu id="22">Somebody</seiyuu>
    </character>
  </characters>
  <episodes>
    <episode id="301"><epno type="1">2</epno><airdate>2004-04-14</airdate><rating votes="10">8.10</rating><title xml:lang="en">Downfall</title></episode>
    <episode id="300"><epno type="1">1</epno><airdate>2004-04-07</airdate><title xml:lang="en">Herr Dr. Tenma</title></episode>
    <episode id="302"><epno type="2">S1</epno><title xml:lang="en">Recap</title></episode>
    <episode id="303"><epno type="3">OP1</epno><title xml:lang="en">Grain</title></episode>
  </episodes>
</anime>`

func testService(t *testing.T) *service {
	t.Helper()
	return &service{
		log:        zerolog.Nop(),
		sourceTags: DefaultSourceTags,
	}
}

func TestMapAnime(t *testing.T) {
	anime := animeXML{}
	require.NoError(t, xml.Unmarshal([]byte(animePayload), &anime))

	show, err := testService(t).mapAnime(anime, []byte(animePayload))
	require.NoError(t, err)

	assert.Equal(t, "30", show.ID)
	assert.Equal(t, domain.Titles{
		domain.LanguageEnglish:  "Monster",
		domain.LanguageJapanese: "モンスター",
		domain.LanguageRomaji:   "Monster",
	}, show.Titles)

	assert.Equal(t, "2004-04-07", show.Dates.Premiered.Format("2006-01-02"))
	assert.Equal(t, "2005-09-28", show.Dates.Ended.Format("2006-01-02"))

	// The source material tag is classified, not listed as a genre.
	assert.Equal(t, []string{"Anime", "Psychological", "Thriller"}, show.Genres)
	require.NotNil(t, show.SourceMaterial)
	assert.Equal(t, domain.SourceManga, *show.SourceMaterial)

	require.NotNil(t, show.Rating)
	assert.Equal(t, "8.76", show.Rating.String())

	assert.Equal(t, []string{"Masayuki Kojima"}, show.Staff.Director)
	assert.Equal(t, []string{"Kuniaki Haishima"}, show.Staff.Music)
	assert.Equal(t, []string{"Naoki Urasawa"}, show.Staff.Screenwriter)
	assert.Equal(t, []string{"Madhouse"}, show.Studios)

	assert.Equal(t, []domain.Character{
		{Name: "Kenzou Tenma", Seiyuu: "Hidenobu Kiuchi"},
		{Name: "Nina Fortner", Seiyuu: "Mamiko Noto"},
	}, show.Characters)

	assert.Equal(t, "https://cdn-eu.anidb.net/images/main/30.jpg", show.Images.Folder)
	assert.Contains(t, show.Plot, "Johan Liebert")
	assert.NotContains(t, show.Plot, "anidb.net")
	assert.NotContains(t, show.Plot, "Source:")
}

func TestMapAnimeEpisodes(t *testing.T) {
	anime := animeXML{}
	require.NoError(t, xml.Unmarshal([]byte(animePayload), &anime))

	show, err := testService(t).mapAnime(anime, nil)
	require.NoError(t, err)

	// Openings/endings (epno type 3) are dropped; specials survive and sort
	// after the regular episode sharing their number.
	require.Len(t, show.Episodes, 3)
	assert.Equal(t, 1, show.Episodes[0].No)
	assert.Equal(t, "300", show.Episodes[0].ID)
	assert.Equal(t, domain.EpisodeRegular, show.Episodes[0].Type)

	special := show.Episodes[1]
	assert.Equal(t, 1, special.No)
	assert.Equal(t, "302", special.ID)
	assert.Equal(t, domain.EpisodeSpecial, special.Type)

	assert.Equal(t, 2, show.Episodes[2].No)
	require.NotNil(t, show.Episodes[2].Rating)
	assert.Equal(t, "8.1", show.Episodes[2].Rating.String())
}

func TestMapAnimeRejectsMissingSourceTag(t *testing.T) {
	anime := animeXML{}
	require.NoError(t, xml.Unmarshal([]byte(animePayload), &anime))
	anime.Tags.Tag = anime.Tags.Tag[1:]

	_, err := testService(t).mapAnime(anime, nil)
	assert.ErrorIs(t, err, domain.ErrUnmappedEnum)
}

func TestMapTitlesPrefersMain(t *testing.T) {
	titles := mapTitles([]titleXML{
		{Lang: "en", Type: "official", Value: "Official Title"},
		{Lang: "en", Type: "main", Value: "Main Title."},
		{Lang: "fr", Type: "official", Value: "Titre"},
	})
	assert.Equal(t, domain.Titles{domain.LanguageEnglish: "Main Title"}, titles)
}

func TestSourceMaterialClassification(t *testing.T) {
	svc := testService(t)

	tests := []struct {
		tagID int
		want  domain.SourceMaterial
	}{
		{tagID: 2798, want: domain.SourceManga},
		{tagID: 5010, want: domain.SourceManga},
		{tagID: 6493, want: domain.SourceManga},
		{tagID: 2800, want: domain.SourceGame},
		{tagID: 2799, want: domain.SourceLightNovel},
		{tagID: 2609, want: domain.SourceOriginal},
	}

	for _, tt := range tests {
		payload := fmt.Sprintf(
			`<anime id="1"><tags><tag id="%d"><name>%s</name></tag></tags></anime>`,
			tt.tagID, DefaultSourceTags[tt.tagID])

		anime := animeXML{}
		require.NoError(t, xml.Unmarshal([]byte(payload), &anime))

		got, err := svc.sourceMaterial(anime)
		require.NoError(t, err, "tag %d", tt.tagID)
		assert.Equal(t, tt.want, got, "tag %d", tt.tagID)
	}
}
