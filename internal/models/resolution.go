package models

// ResolutionStatus classifies the outcome of resolving a competitor name
// against the upstream directory.
type ResolutionStatus string

// Resolution outcomes
const (
	ResolutionFound           ResolutionStatus = "found"
	ResolutionNotFound        ResolutionStatus = "not_found"
	ResolutionUpstreamInvalid ResolutionStatus = "upstream_invalid"
)

// Suggestion is a near-match offered when a name does not resolve exactly
type Suggestion struct {
	Name         string `json:"name"`
	CompetitorID string `json:"competitor_id,omitempty"`
}

// Resolution is the explicit result of a name lookup. Callers branch on
// Status instead of catching errors out of the boundary layer.
type Resolution struct {
	Status       ResolutionStatus `json:"status"`
	Canonical    string           `json:"canonical,omitempty"`
	CompetitorID string           `json:"competitor_id,omitempty"`
	ProfileURL   string           `json:"profile_url,omitempty"`
	Suggestions  []Suggestion     `json:"suggestions,omitempty"`
}

// IsFound reports whether the lookup resolved to a single competitor
func (r *Resolution) IsFound() bool {
	return r.Status == ResolutionFound
}
