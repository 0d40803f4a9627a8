package features

import (
	"math"
	"time"

	"github.com/hmp229/psa-predict/internal/models"
)

// HeadToHead summarizes the shared history between the two competitors. The
// effective sample size counts only meetings inside the H2H window, decayed
// by half-life so recent meetings dominate. An empty head-to-head subset
// returns the neutral defaults.
func (e *Extractor) HeadToHead(h2h models.HeadToHeadHistory, ref time.Time) models.H2HSummary {
	if len(h2h) == 0 {
		return models.NeutralH2H()
	}

	cutoff := ref.AddDate(0, 0, -e.cfg.H2HWindowDays)

	aWins := 0
	nEffective := 0.0
	gameDiffSum := 0.0
	var mostRecent time.Time
	for _, m := range h2h {
		if m.Winner == models.SideA {
			aWins++
		}
		if !m.Date.Before(cutoff) {
			daysAgo := ref.Sub(m.Date).Hours() / 24
			nEffective += math.Pow(0.5, daysAgo/e.cfg.H2HHalfLife)
		}

		// Records are from A's perspective, so the raw differential is
		// already signed toward A.
		gameDiffSum += float64(m.GameDiff())

		if m.Date.After(mostRecent) {
			mostRecent = m.Date
		}
	}

	n := len(h2h)
	return models.H2HSummary{
		NMatches:     n,
		NEffective:   nEffective,
		AWinRate:     float64(aWins) / float64(n),
		AvgGameDiffA: gameDiffSum / float64(n),
		DaysSince:    int(ref.Sub(mostRecent).Hours() / 24),
	}
}
