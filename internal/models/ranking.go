package models

import (
	"fmt"
	"time"
)

// MaxSnapshotAge is the oldest a ranking snapshot may be before it is
// rejected at the boundary.
const MaxSnapshotAge = 90 * 24 * time.Hour

// UnrankedRank is the rank assigned upstream when a competitor has no
// published ranking. The core treats very large ranks as effectively unranked.
const UnrankedRank = 999

// RankingSnapshot represents a published ranking for a competitor
type RankingSnapshot struct {
	Rank    int       `json:"rank" validate:"required,min=1"`
	Points  int       `json:"points" validate:"gte=0,lte=200000"`
	AsOf    time.Time `json:"as_of" validate:"required"`
	Sources []string  `json:"sources,omitempty"`
}

// Age returns how old the snapshot is relative to now
func (r *RankingSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(r.AsOf)
}

// CheckFreshness rejects snapshots older than MaxSnapshotAge. Staleness is a
// boundary validation failure, never an error raised inside the core.
func (r *RankingSnapshot) CheckFreshness(now time.Time) error {
	if age := r.Age(now); age > MaxSnapshotAge {
		return fmt.Errorf("%w: snapshot dated %s is %d days old",
			ErrStaleSnapshot, r.AsOf.Format("2006-01-02"), int(age.Hours()/24))
	}
	return nil
}
