package models

import "errors"

// Custom errors
var (
	ErrStaleSnapshot       = errors.New("ranking snapshot too old")
	ErrCompetitorNotFound  = errors.New("competitor not found")
	ErrAmbiguousCompetitor = errors.New("competitor name is ambiguous")
	ErrUpstreamInvalid     = errors.New("upstream returned invalid data")
	ErrInvalidRank         = errors.New("rank must be a positive integer")
)
