package domain

import "errors"

// Common domain errors surfaced by riding analytics.
var (
	// ErrNoCandidates indicates a riding with no candidate entries at all.
	ErrNoCandidates = errors.New("riding has no candidates")

	// ErrInsufficientCandidates indicates a riding with fewer than two
	// candidates, for which a victory margin is undefined.
	ErrInsufficientCandidates = errors.New("riding has fewer than two candidates")
)
