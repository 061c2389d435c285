// Package provider holds the source-independent search flow shared by every
// metadata adapter.
package provider

import (
	"context"

	"github.com/pkg/errors"

	"github.com/danie1k/anime-metadata/internal/domain"
	"github.com/danie1k/anime-metadata/internal/resolver"
)

// SearchSeries resolves one of the alternative titles against p and fetches
// the canonical record for the winning identity. Titles are tried in order;
// a title that resolves to NoMatch does not prevent trying the next one.
// Ambiguous resolution is an explicit failure, never a guess.
func SearchSeries(ctx context.Context, p domain.Provider, threshold float64, year *int, titles ...string) (*domain.Show, error) {
	if threshold <= 0 {
		threshold = domain.DefaultSimilarityThreshold
	}

	var any bool
	for _, title := range titles {
		if title != "" {
			any = true
		}
	}
	if !any {
		return nil, errors.Wrap(domain.ErrValidation, `at least one "title" argument is required`)
	}

	for _, title := range titles {
		if title == "" {
			continue
		}

		result, err := resolveTitle(ctx, p, title, year, threshold)
		if err != nil {
			return nil, err
		}

		switch result.Outcome {
		case resolver.Found:
			return p.GetSeriesByID(ctx, result.Match.ID)
		case resolver.Ambiguous:
			return nil, errors.Wrapf(domain.ErrMultipleResults,
				"%s returned %d plausible matches for title %q", p.Name(), len(result.Candidates), title)
		}
	}

	return nil, errors.Wrapf(domain.ErrNoResult, "cannot find %s series for titles %q", p.Name(), titles)
}

func resolveTitle(ctx context.Context, p domain.Provider, title string, year *int, threshold float64) (resolver.Result, error) {
	// Providers with oversized or paginated catalogs stream their
	// candidates so resolution can stop on an exact match.
	if streamer, ok := p.(domain.CandidateStreamer); ok {
		return resolver.ResolveSeq(title, streamer.StreamCandidates(ctx, title, year), threshold), nil
	}

	candidates, err := p.FindCandidates(ctx, title, year)
	if err != nil {
		return resolver.Result{}, errors.Wrapf(err, "failed to search %s for %q", p.Name(), title)
	}
	return resolver.Resolve(title, candidates, threshold), nil
}
