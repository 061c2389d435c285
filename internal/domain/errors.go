package domain

import "github.com/pkg/errors"

var (
	// ErrValidation indicates the caller supplied unusable input, e.g. a
	// search with zero titles.
	ErrValidation = errors.New("validation error")

	// ErrNoResult indicates no candidate met the similarity threshold, or
	// the provider returned an empty result set.
	ErrNoResult = errors.New("no matching result")

	// ErrMultipleResults indicates two or more candidates tied above the
	// similarity threshold and none was an exact match.
	ErrMultipleResults = errors.New("multiple matching results")

	// ErrCacheMiss is returned by CacheRepo.Get when an entry is absent or
	// has outlived its TTL. It never escapes CacheRepo.Fetch.
	ErrCacheMiss = errors.New("cache entry not found")

	// ErrUnmappedEnum indicates a raw value outside the known closed set of
	// an enumeration (rating board, source material).
	ErrUnmappedEnum = errors.New("unmapped enumeration value")
)
