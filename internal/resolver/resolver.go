// Package resolver maps a free-text title query to exactly one candidate
// record in a provider's catalog. Resolution is stateless per call and ends
// in one of three outcomes: Found, NoMatch or Ambiguous.
package resolver

import (
	"iter"
	"sort"

	"github.com/danie1k/anime-metadata/internal/domain"
)

// Outcome is the terminal state of one resolution.
type Outcome int

const (
	NoMatch Outcome = iota
	Found
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Ambiguous:
		return "ambiguous"
	default:
		return "no match"
	}
}

// Result is the tagged outcome of a resolution. Match is set for Found;
// Candidates carries the plausible matches for Ambiguous, ordered by
// descending score then source order.
type Result struct {
	Outcome    Outcome
	Match      domain.Candidate
	Candidates []domain.Candidate
}

// Resolve selects the single matching record from a known-finite candidate
// list. Zero candidates report NoMatch immediately; a single candidate is
// trusted unconditionally, without computing similarity.
func Resolve(title string, candidates []domain.Candidate, threshold float64) Result {
	switch len(candidates) {
	case 0:
		return Result{Outcome: NoMatch}
	case 1:
		return Result{Outcome: Found, Match: candidates[0]}
	}

	return ResolveSeq(title, func(yield func(domain.Candidate) bool) {
		for _, c := range candidates {
			if !yield(c) {
				return
			}
		}
	}, threshold)
}

// ResolveSeq scans a possibly unbounded candidate stream in source order. A
// score of exactly 1.0 stops iteration immediately, so on a paginated source
// no further pages are consumed once an exact match occurs. Scores at or
// above the threshold accumulate; anything below is discarded.
func ResolveSeq(title string, candidates iter.Seq[domain.Candidate], threshold float64) Result {
	type scored struct {
		candidate domain.Candidate
		score     float64
	}
	var matches []scored

	for candidate := range candidates {
		score := Similarity(candidate.Title, title)
		if score == 1.0 {
			return Result{Outcome: Found, Match: candidate}
		}
		if score >= threshold {
			matches = append(matches, scored{candidate: candidate, score: score})
		}
	}

	switch len(matches) {
	case 0:
		return Result{Outcome: NoMatch}
	case 1:
		return Result{Outcome: Found, Match: matches[0].candidate}
	}

	// No disambiguation heuristic is applied: ties are reported, never
	// guessed. Highest score first keeps the report deterministic.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	result := Result{Outcome: Ambiguous, Candidates: make([]domain.Candidate, len(matches))}
	for i, m := range matches {
		result.Candidates[i] = m.candidate
	}
	return result
}
