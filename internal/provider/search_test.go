package provider

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danie1k/anime-metadata/internal/domain"
)

type fakeProvider struct {
	candidates map[string][]domain.Candidate
	shows      map[string]*domain.Show
	searches   []string
	fetched    []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) FindCandidates(_ context.Context, title string, _ *int) ([]domain.Candidate, error) {
	f.searches = append(f.searches, title)
	return f.candidates[title], nil
}

func (f *fakeProvider) GetSeriesByID(_ context.Context, id string) (*domain.Show, error) {
	f.fetched = append(f.fetched, id)
	show, ok := f.shows[id]
	if !ok {
		return nil, domain.ErrNoResult
	}
	return show, nil
}

type fakeStreamer struct {
	fakeProvider
	streamed []domain.Candidate
	consumed int
}

func (f *fakeStreamer) StreamCandidates(_ context.Context, _ string, _ *int) iter.Seq[domain.Candidate] {
	return func(yield func(domain.Candidate) bool) {
		for _, c := range f.streamed {
			f.consumed++
			if !yield(c) {
				return
			}
		}
	}
}

func TestSearchSeriesNoTitles(t *testing.T) {
	p := &fakeProvider{}

	_, err := SearchSeries(context.Background(), p, 0.9, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = SearchSeries(context.Background(), p, 0.9, nil, "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, p.searches, "no search may happen without a usable title")
}

func TestSearchSeriesFound(t *testing.T) {
	p := &fakeProvider{
		candidates: map[string][]domain.Candidate{
			"Monster": {{ID: "30", Title: "Monster"}},
		},
		shows: map[string]*domain.Show{
			"30": {ID: "30"},
		},
	}

	show, err := SearchSeries(context.Background(), p, 0.9, nil, "Monster")
	require.NoError(t, err)
	assert.Equal(t, "30", show.ID)
}

func TestSearchSeriesTriesTitlesInOrder(t *testing.T) {
	p := &fakeProvider{
		candidates: map[string][]domain.Candidate{
			"Unknown Alias": nil,
			"モンスター":         {{ID: "30", Title: "モンスター"}},
		},
		shows: map[string]*domain.Show{
			"30": {ID: "30"},
		},
	}

	show, err := SearchSeries(context.Background(), p, 0.9, nil, "Unknown Alias", "モンスター")
	require.NoError(t, err)
	assert.Equal(t, "30", show.ID)
	assert.Equal(t, []string{"Unknown Alias", "モンスター"}, p.searches)
}

func TestSearchSeriesSkipsBlankTitles(t *testing.T) {
	p := &fakeProvider{
		candidates: map[string][]domain.Candidate{
			"Monster": {{ID: "30", Title: "Monster"}},
		},
		shows: map[string]*domain.Show{
			"30": {ID: "30"},
		},
	}

	_, err := SearchSeries(context.Background(), p, 0.9, nil, "", "Monster")
	require.NoError(t, err)
	assert.Equal(t, []string{"Monster"}, p.searches)
}

func TestSearchSeriesAmbiguous(t *testing.T) {
	p := &fakeProvider{
		candidates: map[string][]domain.Candidate{
			"Monster": {
				{ID: "30", Title: "Monster."},
				{ID: "31", Title: "Monsters"},
			},
		},
	}

	_, err := SearchSeries(context.Background(), p, 0.9, nil, "Monster")
	assert.ErrorIs(t, err, domain.ErrMultipleResults)
	assert.Empty(t, p.fetched, "an ambiguous resolution must not fetch anything")
}

func TestSearchSeriesExhausted(t *testing.T) {
	p := &fakeProvider{}

	_, err := SearchSeries(context.Background(), p, 0.9, nil, "Monster", "モンスター")
	assert.ErrorIs(t, err, domain.ErrNoResult)
	assert.Equal(t, []string{"Monster", "モンスター"}, p.searches)
}

func TestSearchSeriesPrefersStreaming(t *testing.T) {
	p := &fakeStreamer{
		streamed: []domain.Candidate{
			{ID: "29", Title: "Monster."},
			{ID: "30", Title: "Monster"},
			{ID: "31", Title: "Monsters"},
		},
	}
	p.shows = map[string]*domain.Show{"30": {ID: "30"}}

	show, err := SearchSeries(context.Background(), p, 0.9, nil, "Monster")
	require.NoError(t, err)
	assert.Equal(t, "30", show.ID)
	assert.Empty(t, p.searches, "streaming providers bypass FindCandidates")
	assert.Equal(t, 2, p.consumed, "the stream must stop at the exact match")
}
