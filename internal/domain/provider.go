package domain

import (
	"context"
	"iter"
)

// Candidate is one raw search result from a provider's catalog: an opaque
// identity plus the title string used for similarity scoring.
type Candidate struct {
	ID    string
	Title string
}

// Provider is the capability contract every metadata source implements. The
// shared multi-title retry logic lives in the provider package and depends
// only on this interface.
type Provider interface {
	Name() string

	// FindCandidates returns the source-ordered raw search results for a
	// title query. The optional year narrows the search where the source
	// supports it.
	FindCandidates(ctx context.Context, title string, year *int) ([]Candidate, error)

	// GetSeriesByID fetches the full record for one identity and returns it
	// as a canonical Show. Implementations consult the cache before the
	// network.
	GetSeriesByID(ctx context.Context, id string) (*Show, error)
}

// CandidateStreamer is implemented by providers whose candidate sets are too
// large or paginated to materialize; resolution then consumes the stream
// lazily and stops on an exact match.
type CandidateStreamer interface {
	StreamCandidates(ctx context.Context, title string, year *int) iter.Seq[Candidate]
}
