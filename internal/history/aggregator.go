// Package history merges match-history fragments from multiple data sources
// into a single deduplicated timeline per competitor.
package history

import (
	"sort"
	"time"

	"github.com/hmp229/psa-predict/internal/models"
)

// Fragment is a slice of match records produced by one source
type Fragment struct {
	Source  string
	Records []models.MatchRecord
}

// Aggregator merges source-tagged history fragments. Source priority is the
// order the source names were supplied in: index 0 wins conflicts.
type Aggregator struct {
	priority map[string]int
}

// NewAggregator creates an aggregator with the given source priority order
func NewAggregator(sourceOrder []string) *Aggregator {
	priority := make(map[string]int, len(sourceOrder))
	for i, name := range sourceOrder {
		if _, ok := priority[name]; !ok {
			priority[name] = i
		}
	}
	return &Aggregator{priority: priority}
}

type mergeKey struct {
	date     time.Time
	opponent string
}

// Merge combines the fragments into one history. Records sharing the same
// (date, opponent) pair collapse to the record from the highest-priority
// source. The result is sorted descending by date. Zero fragments is not an
// error: the merge is an empty history and downstream features degrade to
// their neutral defaults.
func (a *Aggregator) Merge(fragments []Fragment) models.CompetitorHistory {
	best := make(map[mergeKey]models.MatchRecord)
	for _, frag := range fragments {
		for _, rec := range frag.Records {
			if rec.Source == "" {
				rec.Source = frag.Source
			}
			key := mergeKey{date: rec.Date.UTC(), opponent: rec.Opponent}
			existing, ok := best[key]
			if !ok || a.rank(rec.Source) < a.rank(existing.Source) {
				best[key] = rec
			}
		}
	}

	merged := make(models.CompetitorHistory, 0, len(best))
	for _, rec := range best {
		merged = append(merged, rec)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.After(merged[j].Date)
		}
		return merged[i].Opponent < merged[j].Opponent
	})
	return merged
}

// rank returns the priority index for a source, unknown sources sort last
func (a *Aggregator) rank(source string) int {
	if idx, ok := a.priority[source]; ok {
		return idx
	}
	return len(a.priority)
}
